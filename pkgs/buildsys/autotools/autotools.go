// Package autotools drives packages shipping an autoconf configure script.
// The script runs from the build folder so that sources stay clean.
package autotools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hyperk/hkpilot/pkgs/buildsys"
	"github.com/hyperk/hkpilot/pkgs/env"
)

// ErrMissingScript is returned by Configure when the configure script is
// not in the descriptor folder.
var ErrMissingScript = errors.New("missing " + Script + " script")

// AutoTools runs the lifecycle of one target.
type AutoTools struct {
	target *buildsys.Target

	Runner buildsys.Runner
	Logger buildsys.Logger
	Lookup env.Lookup
	NumCPU func() int
}

var _ buildsys.BuildSystem = (*AutoTools)(nil)

// New creates a driver for target that runs tools through os/exec.
func New(target *buildsys.Target) *AutoTools {
	return &AutoTools{
		target: target,
		Runner: &buildsys.ExecRunner{},
		Logger: buildsys.DefaultLogger(),
		Lookup: os.LookupEnv,
		NumCPU: runtime.NumCPU,
	}
}

func (a *AutoTools) Target() *buildsys.Target {
	return a.target
}

func (a *AutoTools) CheckDependencies(ctx context.Context) error {
	return a.target.MergeDeclared(a.Logger)
}

func (a *AutoTools) Configure(ctx context.Context) error {
	t := a.target
	a.Logger.Infof("Configuration of %s in progress...", t.Name)

	script, err := filepath.Abs(filepath.Join(t.DescriptorDir(), Script))
	if err != nil {
		return err
	}
	if _, err := os.Stat(script); err != nil {
		a.Logger.Errorf("Cannot find %s in %s", Script, t.DescriptorDir())
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w in %s", ErrMissingScript, t.DescriptorDir())
		}
		return err
	}

	for _, d := range []string{t.BuildDir, t.InstallDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			a.Logger.Errorf("Cannot create %s: %v", d, err)
			return err
		}
	}

	if prefix, ok := t.Options[PrefixOption]; ok {
		a.Logger.Warnf("--%s already defined as %s", PrefixOption, prefix)
	} else {
		prefix, err := filepath.Abs(t.InstallDir)
		if err != nil {
			return err
		}
		t.SetOption(PrefixOption, prefix)
	}

	e, err := env.Resolve(a.Lookup)
	if err != nil {
		a.Logger.Errorf("Cannot resolve workspace of %s: %v", t.Name, err)
		return err
	}
	vars := DependencyVars(t.DependsOn, t.Options, e.InstallDir)
	return a.run(ctx, "Configuration", script, ConfigureArgs(t.Options, vars))
}

func (a *AutoTools) Build(ctx context.Context) error {
	a.Logger.Infof("Build of %s in progress...", a.target.Name)
	return a.run(ctx, "Build", Make, BuildArgs(a.target.ResolveJobs(a.NumCPU)))
}

func (a *AutoTools) Install(ctx context.Context) error {
	a.Logger.Infof("Installation of %s in progress...", a.target.Name)
	return a.run(ctx, "Installation", Make, InstallArgs(a.target.ResolveJobs(a.NumCPU)))
}

func (a *AutoTools) OutputDir() string {
	return a.target.InstallDir
}

func (a *AutoTools) run(ctx context.Context, step, tool string, args []string) error {
	name := a.target.Name
	a.Logger.Debugf("Running <%s %s> in %s", tool, strings.Join(args, " "), a.target.BuildDir)
	if err := a.Runner.Run(ctx, a.target.BuildDir, tool, args...); err != nil {
		a.Logger.Errorf("%s of %s failed: %v", step, name, err)
		return fmt.Errorf("%s of %s: %w", strings.ToLower(step), name, err)
	}
	a.Logger.Infof("%s of %s done successfully", step, name)
	return nil
}
