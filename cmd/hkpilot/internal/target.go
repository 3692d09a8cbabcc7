package internal

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hyperk/hkpilot/internal/config"
	"github.com/hyperk/hkpilot/pkgs/buildsys"
	"github.com/hyperk/hkpilot/pkgs/env"
	"github.com/spf13/cobra"
)

// targetFlags are shared by every command that works on a package.
type targetFlags struct {
	source        string
	name          string
	cmakelistPath string
	buildDir      string
	installDir    string
	generator     string
	buildType     string
	jobs          int
	defines       []string
	buildSystem   string
}

var tflags targetFlags

func addTargetFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&tflags.source, "source", "s", ".", "Source path of the package")
	f.StringVar(&tflags.name, "name", "", "Package name (default: base name of the source path)")
	f.StringVar(&tflags.cmakelistPath, "cmakelist-path", "", "Directory of CMakeLists.txt, relative to the source path")
	f.StringVar(&tflags.buildDir, "build-dir", "", "Build folder (default: <source>/build-<system>)")
	f.StringVar(&tflags.installDir, "install-dir", "", "Install folder (default: <source>/install-<system>)")
	f.StringVarP(&tflags.generator, "generator", "G", "", "CMake generator")
	f.StringVar(&tflags.buildType, "build-type", "", "CMAKE_BUILD_TYPE")
	f.IntVarP(&tflags.jobs, "jobs", "j", 0, "Parallel jobs, 0 for one per logical CPU")
	f.StringArrayVarP(&tflags.defines, "define", "D", nil, "Build option KEY=VALUE (repeatable)")
	f.StringVar(&tflags.buildSystem, "build-system", "auto", "Build tool driver: auto, cmake or autotools")
}

// loadTarget builds the target from defaults, the package's hkpilot.hcl and
// then the command-line flags, in increasing precedence.
func loadTarget(cmd *cobra.Command, e env.Env) (*buildsys.Target, error) {
	src, err := filepath.Abs(tflags.source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}
	t := buildsys.NewTarget(src, e.System)

	pkg, err := config.Load(src)
	switch {
	case err == nil:
		pkg.Apply(t)
	case !config.IsNotExist(err):
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("name") {
		t.Name = tflags.name
	}
	if f.Changed("cmakelist-path") {
		t.CMakeListsPath = tflags.cmakelistPath
	}
	if f.Changed("build-dir") {
		if t.BuildDir, err = filepath.Abs(tflags.buildDir); err != nil {
			return nil, err
		}
	}
	if f.Changed("install-dir") {
		if t.InstallDir, err = filepath.Abs(tflags.installDir); err != nil {
			return nil, err
		}
	}
	if f.Changed("generator") {
		t.Generator = tflags.generator
	}
	if f.Changed("build-type") {
		t.BuildType = tflags.buildType
	}
	if f.Changed("jobs") {
		if tflags.jobs < 0 {
			return nil, fmt.Errorf("--jobs must not be negative, got %d", tflags.jobs)
		}
		t.Jobs = tflags.jobs
	}
	for _, d := range tflags.defines {
		key, value, err := parseDefine(d)
		if err != nil {
			return nil, err
		}
		t.SetOption(key, value)
	}
	return t, nil
}

// parseDefine splits a KEY=VALUE option. The value may be empty and may
// itself contain '='.
func parseDefine(arg string) (key, value string, err error) {
	key, value, ok := strings.Cut(arg, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid option %q, want KEY=VALUE", arg)
	}
	return key, value, nil
}
