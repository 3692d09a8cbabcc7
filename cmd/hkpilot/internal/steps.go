package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperk/hkpilot/internal/pilot"
	"github.com/hyperk/hkpilot/pkgs/buildsys"
	"github.com/hyperk/hkpilot/pkgs/buildsys/autotools"
	"github.com/hyperk/hkpilot/pkgs/buildsys/cmake"
	"github.com/hyperk/hkpilot/pkgs/env"
	"github.com/spf13/cobra"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "List the dependencies of a package",
	Long:  `Deps reads the dependency declaration file of a package and prints the declared dependencies.`,
	Args:  cobra.NoArgs,
	RunE:  runDeps,
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure a package",
	Long:  `Configure reads the dependencies of a package and runs the configure step of its build tool.`,
	Args:  cobra.NoArgs,
	RunE:  stepRunner(pilot.StepConfigure),
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Configure and build a package",
	Long:  `Build configures a package and compiles it.`,
	Args:  cobra.NoArgs,
	RunE:  stepRunner(pilot.StepBuild),
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Configure, build and install a package",
	Long:  `Install runs every build step of a package and installs it into its install folder.`,
	Args:  cobra.NoArgs,
	RunE:  stepRunner(pilot.StepInstall),
}

func init() {
	for _, cmd := range []*cobra.Command{depsCmd, configureCmd, buildCmd, installCmd} {
		addTargetFlags(cmd)
		rootCmd.AddCommand(cmd)
	}
}

func stepRunner(until pilot.Step) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		_, err := runSteps(cmd, until)
		return err
	}
}

func runSteps(cmd *cobra.Command, until pilot.Step) (*buildsys.Target, error) {
	e, err := env.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace: %w", err)
	}
	t, err := loadTarget(cmd, e)
	if err != nil {
		return nil, err
	}

	runner := &buildsys.ExecRunner{Output: cmd.OutOrStdout(), Env: e.Vars()}
	bs, err := newBuildSystem(tflags.buildSystem, t, runner)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := pilot.New().Run(ctx, bs, until); err != nil {
		return nil, err
	}
	return t, nil
}

// newBuildSystem returns the driver named by kind. With "auto" the driver
// follows the descriptor found in the target's descriptor folder, CMake
// first.
func newBuildSystem(kind string, t *buildsys.Target, runner buildsys.Runner) (buildsys.BuildSystem, error) {
	if kind == "auto" || kind == "" {
		kind = "cmake"
		dir := t.DescriptorDir()
		if !exists(filepath.Join(dir, cmake.Descriptor)) && exists(filepath.Join(dir, autotools.Script)) {
			kind = "autotools"
		}
	}
	switch kind {
	case "cmake":
		c := cmake.New(t)
		c.Runner = runner
		return c, nil
	case "autotools":
		a := autotools.New(t)
		a.Runner = runner
		return a, nil
	}
	return nil, fmt.Errorf("unknown build system %q", kind)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func runDeps(cmd *cobra.Command, args []string) error {
	t, err := runSteps(cmd, pilot.StepDeps)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range t.DependsOn.Names() {
		if v := t.DependsOn[name].Version; v != "" {
			fmt.Fprintf(out, "%s %s\n", name, v)
			continue
		}
		fmt.Fprintln(out, name)
	}
	return nil
}
