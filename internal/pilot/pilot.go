// Package pilot sequences the build steps of a package:
// dependencies, configure, build, install. Each step runs once and the
// sequence stops at the first failure.
package pilot

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperk/hkpilot/pkgs/buildsys"
)

// Step names a stage of the build lifecycle.
type Step int

const (
	StepDeps Step = iota
	StepConfigure
	StepBuild
	StepInstall
)

var stepNames = [...]string{
	StepDeps:      "deps",
	StepConfigure: "configure",
	StepBuild:     "build",
	StepInstall:   "install",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// ParseStep returns the step called name.
func ParseStep(name string) (Step, error) {
	for s, n := range stepNames {
		if n == name {
			return Step(s), nil
		}
	}
	return 0, fmt.Errorf("unknown step %q", name)
}

// StepError reports which step of which package failed.
type StepError struct {
	Step    Step
	Package string
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Package, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Pilot runs build systems step by step.
type Pilot struct {
	Logger buildsys.Logger
	// Now stamps install records.
	Now func() time.Time
}

// New returns a Pilot logging to the qiniu standard logger.
func New() *Pilot {
	return &Pilot{
		Logger: buildsys.DefaultLogger(),
		Now:    time.Now,
	}
}

// Run executes the steps of bs in order up to and including until. After a
// successful install the install record is written to bs.OutputDir().
func (p *Pilot) Run(ctx context.Context, bs buildsys.BuildSystem, until Step) error {
	t := bs.Target()
	steps := []struct {
		step Step
		fn   func(context.Context) error
	}{
		{StepDeps, bs.CheckDependencies},
		{StepConfigure, bs.Configure},
		{StepBuild, bs.Build},
		{StepInstall, bs.Install},
	}
	for _, s := range steps {
		if s.step > until {
			break
		}
		if err := ctx.Err(); err != nil {
			return &StepError{Step: s.step, Package: t.Name, Err: err}
		}
		if err := s.fn(ctx); err != nil {
			return &StepError{Step: s.step, Package: t.Name, Err: err}
		}
	}
	if until < StepInstall {
		return nil
	}

	rec := newRecord(t, p.Now())
	if err := saveRecord(bs.OutputDir(), rec); err != nil {
		p.Logger.Errorf("Cannot write install record of %s: %v", t.Name, err)
		return &StepError{Step: StepInstall, Package: t.Name, Err: err}
	}
	p.Logger.Debugf("Install record of %s written to %s", t.Name, bs.OutputDir())
	return nil
}
