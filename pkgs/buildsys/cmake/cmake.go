// Package cmake drives the configure, build and install steps of a CMake
// package.
package cmake

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

// ErrMissingDescriptor is returned by Configure when CMakeLists.txt is not
// where the target says it is.
var ErrMissingDescriptor = errors.New("missing " + Descriptor)

// CMake runs the lifecycle of one target.
type CMake struct {
	target *buildsys.Target

	Runner buildsys.Runner
	Logger buildsys.Logger
	// Lookup reads HK_WORK_DIR and HK_SYSTEM at configure time.
	Lookup env.Lookup
	// NumCPU reports the logical cores used when the target's Jobs is 0.
	NumCPU func() int
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// New creates a driver for target that runs cmake through os/exec and logs
// to the qiniu standard logger.
func New(target *buildsys.Target) *CMake {
	return &CMake{
		target: target,
		Runner: &buildsys.ExecRunner{},
		Logger: buildsys.DefaultLogger(),
		Lookup: os.LookupEnv,
		NumCPU: runtime.NumCPU,
	}
}

func (c *CMake) Target() *buildsys.Target {
	return c.target
}

// CheckDependencies merges the dependencies declared next to the build
// descriptor into the target.
func (c *CMake) CheckDependencies(ctx context.Context) error {
	return c.target.MergeDeclared(c.Logger)
}

func (c *CMake) Configure(ctx context.Context) error {
	t := c.target
	c.Logger.Infof("Configuration of %s in progress...", t.Name)

	dir := t.DescriptorDir()
	if _, err := os.Stat(filepath.Join(dir, Descriptor)); err != nil {
		c.Logger.Errorf("Cannot find %s in %s", Descriptor, dir)
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w in %s", ErrMissingDescriptor, dir)
		}
		return err
	}

	for _, d := range []string{t.BuildDir, t.InstallDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			c.Logger.Errorf("Cannot create %s: %v", d, err)
			return err
		}
	}

	if prefix, ok := LookupOption(t.Options, InstallPrefix); ok {
		c.Logger.Warnf("%s already defined as %s", InstallPrefix, prefix)
		c.Logger.Warnf("Are you sure you know what you do?")
	} else {
		t.SetOption(InstallPrefix, t.InstallDir)
	}
	if _, ok := LookupOption(t.Options, BuildTypeOption); !ok && t.BuildType != "" {
		t.SetOption(BuildTypeOption, t.BuildType)
	}

	e, err := env.Resolve(c.Lookup)
	if err != nil {
		c.Logger.Errorf("Cannot resolve workspace of %s: %v", t.Name, err)
		return err
	}
	hints := DependencyHints(t.DependsOn, t.Options, e.InstallDir)
	args := ConfigureArgs(dir, t.BuildDir, t.Generator, t.Options, hints)
	return c.run(ctx, "Configuration", args)
}

func (c *CMake) Build(ctx context.Context) error {
	c.Logger.Infof("Build of %s in progress...", c.target.Name)
	return c.run(ctx, "Build", BuildArgs(c.target.BuildDir, c.jobs()))
}

func (c *CMake) Install(ctx context.Context) error {
	c.Logger.Infof("Installation of %s in progress...", c.target.Name)
	return c.run(ctx, "Installation", InstallArgs(c.target.BuildDir, c.jobs()))
}

// OutputDir returns the install folder.
func (c *CMake) OutputDir() string {
	return c.target.InstallDir
}

func (c *CMake) jobs() int {
	return c.target.ResolveJobs(c.NumCPU)
}

func (c *CMake) run(ctx context.Context, step string, args []string) error {
	name := c.target.Name
	c.Logger.Debugf("Running <%s %s>", Tool, strings.Join(args, " "))
	if err := c.Runner.Run(ctx, "", Tool, args...); err != nil {
		c.Logger.Errorf("%s of %s failed: %v", step, name, err)
		return fmt.Errorf("%s of %s: %w", strings.ToLower(step), name, err)
	}
	c.Logger.Infof("%s of %s done successfully", step, name)
	return nil
}
