// Package env resolves the workspace settings shared by every package build.
package env

import (
	"os"
	"path/filepath"
)

const (
	// WorkDirVar names the workspace root where packages are checked out and
	// installed side by side.
	WorkDirVar = "HK_WORK_DIR"
	// SystemVar names the identifier of the host system, used to keep
	// build and install folders of different systems apart.
	SystemVar = "HK_SYSTEM"
)

// Env is a snapshot of the workspace settings.
type Env struct {
	WorkDir string
	System  string
}

// Lookup reads a variable; it has the signature of os.LookupEnv.
type Lookup func(key string) (string, bool)

// Resolve reads the workspace settings through lookup, falling back to
// defaults for unset or empty variables. A nil lookup reads the process
// environment.
func Resolve(lookup Lookup) (Env, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var e Env
	if v, ok := lookup(WorkDirVar); ok && v != "" {
		e.WorkDir = v
	} else {
		dir, err := WorkDir()
		if err != nil {
			return Env{}, err
		}
		e.WorkDir = dir
	}
	if v, ok := lookup(SystemVar); ok && v != "" {
		e.System = v
	} else {
		e.System = System()
	}
	return e, nil
}

// WorkDir returns the default workspace root.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, ".hkpilot"), nil
}

// InstallDir returns where pkg is installed for this system inside the
// workspace: <WorkDir>/<pkg>/install-<System>.
func (e Env) InstallDir(pkg string) string {
	return filepath.Join(e.WorkDir, pkg, "install-"+e.System)
}

// Vars returns the settings keyed by variable name, for exporting them to
// child processes.
func (e Env) Vars() map[string]string {
	return map[string]string{
		WorkDirVar: e.WorkDir,
		SystemVar:  e.System,
	}
}
