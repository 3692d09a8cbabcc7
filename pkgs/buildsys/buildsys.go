package buildsys

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/hyperk/hkpilot/pkgs/deps"
)

// BuildSystem captures the lifecycle shared by build tool drivers.
// Each step is attempted once; the caller stops the sequence at the first
// error.
type BuildSystem interface {
	// Target is the package being built.
	Target() *Target

	// Lifecycle.
	CheckDependencies(ctx context.Context) error
	Configure(ctx context.Context) error
	Build(ctx context.Context) error
	Install(ctx context.Context) error

	// Where artifacts land.
	OutputDir() string
}

// Target is one package being built.
type Target struct {
	Path           string // source path
	Name           string
	CMakeListsPath string // sub-directory of Path holding the build descriptor
	BuildDir       string
	InstallDir     string
	Jobs           int // 0 or less means one job per logical CPU
	Options        map[string]string
	DependsOn      deps.Set
	Generator      string
	BuildType      string
}

// NewTarget returns a target for the package at path with the default
// folder layout <path>/build-<system> and <path>/install-<system>.
func NewTarget(path, system string) *Target {
	return &Target{
		Path:       path,
		Name:       filepath.Base(filepath.Clean(path)),
		BuildDir:   filepath.Join(path, "build-"+system),
		InstallDir: filepath.Join(path, "install-"+system),
		Options:    map[string]string{},
		DependsOn:  deps.Set{},
	}
}

// DescriptorDir is the directory holding the build descriptor and the
// dependency declaration file.
func (t *Target) DescriptorDir() string {
	return filepath.Join(t.Path, t.CMakeListsPath)
}

// SetOption sets a build tool option, allocating Options on first use.
func (t *Target) SetOption(key, value string) {
	if t.Options == nil {
		t.Options = map[string]string{}
	}
	t.Options[key] = value
}

// ResolveJobs turns an unset or negative parallelism into numCPU() and
// stores it on the target so that later steps reuse it.
func (t *Target) ResolveJobs(numCPU func() int) int {
	if t.Jobs <= 0 {
		n := 1
		if numCPU != nil {
			n = numCPU()
		}
		t.Jobs = max(n, 1)
	}
	return t.Jobs
}

// MergeDeclared adds the dependencies declared in the descriptor folder to
// DependsOn. A missing declaration file declares nothing.
func (t *Target) MergeDeclared(log Logger) error {
	set, err := deps.Read(t.DescriptorDir())
	if err != nil {
		log.Errorf("Cannot read dependencies of %s: %v", t.Name, err)
		return err
	}
	if t.DependsOn == nil {
		t.DependsOn = deps.Set{}
	}
	t.DependsOn.Merge(set)
	log.Debugf("%s depends on [%s]", t.Name, strings.Join(t.DependsOn.Names(), " "))
	return nil
}
