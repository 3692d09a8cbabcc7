package buildsys

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperk/hkpilot/pkgs/deps"
)

func TestNewTargetLayout(t *testing.T) {
	src := filepath.Join("work", "WCSim")
	tgt := NewTarget(src+string(filepath.Separator), "Linux_x86_64")

	if tgt.Name != "WCSim" {
		t.Errorf("Name = %q, want %q", tgt.Name, "WCSim")
	}
	if want := filepath.Join(src, "build-Linux_x86_64"); tgt.BuildDir != want {
		t.Errorf("BuildDir = %q, want %q", tgt.BuildDir, want)
	}
	if want := filepath.Join(src, "install-Linux_x86_64"); tgt.InstallDir != want {
		t.Errorf("InstallDir = %q, want %q", tgt.InstallDir, want)
	}
	if tgt.Jobs != 0 {
		t.Errorf("Jobs = %d, want 0", tgt.Jobs)
	}
	if tgt.Options == nil || tgt.DependsOn == nil {
		t.Error("Options and DependsOn must be allocated")
	}
}

func TestDescriptorDir(t *testing.T) {
	tgt := &Target{Path: "pkg"}
	if got := tgt.DescriptorDir(); got != "pkg" {
		t.Errorf("DescriptorDir = %q, want %q", got, "pkg")
	}
	tgt.CMakeListsPath = "src"
	if want := filepath.Join("pkg", "src"); tgt.DescriptorDir() != want {
		t.Errorf("DescriptorDir = %q, want %q", tgt.DescriptorDir(), want)
	}
}

func TestSetOptionAllocates(t *testing.T) {
	var tgt Target
	tgt.SetOption("FOO", "BAR")
	if tgt.Options["FOO"] != "BAR" {
		t.Errorf("Options = %v", tgt.Options)
	}
}

func TestResolveJobs(t *testing.T) {
	tgt := &Target{}
	if got := tgt.ResolveJobs(func() int { return 12 }); got != 12 || tgt.Jobs != 12 {
		t.Errorf("ResolveJobs = %d, Jobs = %d, want 12", got, tgt.Jobs)
	}
	if got := tgt.ResolveJobs(func() int { return 3 }); got != 12 {
		t.Errorf("second ResolveJobs = %d, want the stored 12", got)
	}
	if got := (&Target{}).ResolveJobs(nil); got != 1 {
		t.Errorf("ResolveJobs(nil) = %d, want 1", got)
	}
	if got := (&Target{Jobs: -1}).ResolveJobs(func() int { return 5 }); got != 5 {
		t.Errorf("ResolveJobs(-1) = %d, want the CPU count 5", got)
	}
	if got := (&Target{}).ResolveJobs(func() int { return 0 }); got != 1 {
		t.Errorf("ResolveJobs(0 cpus) = %d, want 1", got)
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

func TestMergeDeclared(t *testing.T) {
	src := t.TempDir()
	tgt := NewTarget(src, "sys")
	tgt.DependsOn = nil
	if err := tgt.MergeDeclared(nopLogger{}); err != nil {
		t.Fatalf("MergeDeclared without a file: %v", err)
	}
	if tgt.DependsOn == nil || len(tgt.DependsOn) != 0 {
		t.Errorf("DependsOn = %v, want an empty set", tgt.DependsOn)
	}

	data := `{"name": "WCSim", "deps": {"ROOT": {"version": "6.28.04"}}}`
	if err := os.WriteFile(filepath.Join(src, deps.FileName), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	tgt.DependsOn.Add(deps.Dependency{Name: "Geant4"})
	if err := tgt.MergeDeclared(nopLogger{}); err != nil {
		t.Fatalf("MergeDeclared failed: %v", err)
	}
	if got := strings.Join(tgt.DependsOn.Names(), " "); got != "Geant4 ROOT" {
		t.Errorf("DependsOn = %q", got)
	}
	if v := tgt.DependsOn["ROOT"].Version; v != "6.28.04" {
		t.Errorf("ROOT version = %q", v)
	}

	if err := os.WriteFile(filepath.Join(src, deps.FileName), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := tgt.MergeDeclared(nopLogger{}); err == nil {
		t.Error("MergeDeclared accepted a malformed file")
	}
}

func TestMergeEnv(t *testing.T) {
	got := mergeEnv(
		[]string{"PATH=/bin", "HK_SYSTEM=old", "broken"},
		map[string]string{"HK_SYSTEM": "new", "HK_WORK_DIR": "/work"},
	)
	want := "HK_SYSTEM=new HK_WORK_DIR=/work PATH=/bin"
	if strings.Join(got, " ") != want {
		t.Errorf("mergeEnv = %q, want %q", got, want)
	}
}

func TestRunnerFunc(t *testing.T) {
	var gotDir, gotName string
	var gotArgs []string
	r := RunnerFunc(func(ctx context.Context, dir, name string, args ...string) error {
		gotDir, gotName, gotArgs = dir, name, args
		return errors.New("boom")
	})
	if err := r.Run(context.Background(), "src", "cmake", "--build", "b"); err == nil {
		t.Error("RunnerFunc dropped the error")
	}
	if gotDir != "src" || gotName != "cmake" || strings.Join(gotArgs, " ") != "--build b" {
		t.Errorf("RunnerFunc got %q %q %q", gotDir, gotName, gotArgs)
	}
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH")
	}

	var out bytes.Buffer
	r := &ExecRunner{Output: &out, Env: map[string]string{"HK_SYSTEM": "test-sys"}}

	dir := t.TempDir()
	if err := r.Run(context.Background(), dir, "sh", "-c", `echo "$HK_SYSTEM"; echo to-stderr 1>&2; pwd`); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, want := range []string{"test-sys", "to-stderr", filepath.Base(dir)} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output %q missing %q", out.String(), want)
		}
	}

	err := r.Run(context.Background(), "", "sh", "-c", "exit 3")
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Errorf("Run(exit 3) = %v, want exit status 3", err)
	}

	if err := r.Run(context.Background(), "", "hkpilot-no-such-tool"); err == nil {
		t.Error("Run of a missing tool succeeded")
	}
}
