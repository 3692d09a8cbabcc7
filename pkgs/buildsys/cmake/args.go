package cmake

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hyperk/hkpilot/pkgs/deps"
)

const (
	// Tool is the executable driven by CMake.
	Tool = "cmake"
	// Descriptor is the project definition file CMake reads.
	Descriptor = "CMakeLists.txt"

	InstallPrefix   = "CMAKE_INSTALL_PREFIX"
	BuildTypeOption = "CMAKE_BUILD_TYPE"
)

// packageConfigDirs lists the dependencies whose CMake package config is not
// found through CMAKE_PREFIX_PATH, keyed by lower-cased name, with the
// location of the config inside the dependency's install folder.
var packageConfigDirs = map[string]string{
	"root":   "cmake",
	"geant4": filepath.Join("lib64", "cmake"),
}

// DefinesArgs renders options as -D<key>=<value>, sorted by key.
func DefinesArgs(options map[string]string) []string {
	if len(options) == 0 {
		return nil
	}
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, "-D"+k+"="+options[k])
	}
	return args
}

// OptionName strips the type of a cache entry key: "ROOT_DIR:PATH" names
// ROOT_DIR.
func OptionName(key string) string {
	name, _, _ := strings.Cut(key, ":")
	return name
}

// LookupOption finds the option called name, typed or not.
func LookupOption(options map[string]string, name string) (string, bool) {
	if v, ok := options[name]; ok {
		return v, true
	}
	for k, v := range options {
		if OptionName(k) == name {
			return v, true
		}
	}
	return "", false
}

// DependencyHints returns -D<name>_DIR=<dir> for every declared dependency
// in the allow-list, pointing into installDir(name) joined with the config
// sub-folder. Each allow-listed name yields at most one hint, and none if
// options already define <name>_DIR, typed or not.
func DependencyHints(set deps.Set, options map[string]string, installDir func(name string) string) []string {
	var hints []string
	seen := make(map[string]bool)
	for _, name := range set.Names() {
		lower := strings.ToLower(name)
		sub, ok := packageConfigDirs[lower]
		if !ok || seen[lower] {
			continue
		}
		seen[lower] = true
		key := name + "_DIR"
		if _, ok := LookupOption(options, key); ok {
			continue
		}
		hints = append(hints, "-D"+key+"="+filepath.Join(installDir(name), sub))
	}
	return hints
}

// ConfigureArgs returns the arguments of the configure invocation:
//
//	-S <src> -B <build> [-G <generator>] -D<key>=<value>... <hints>...
func ConfigureArgs(src, buildDir, generator string, options map[string]string, hints []string) []string {
	args := []string{"-S", src, "-B", buildDir}
	if generator != "" {
		args = append(args, "-G", generator)
	}
	args = append(args, DefinesArgs(options)...)
	return append(args, hints...)
}

// BuildArgs returns the arguments of the build invocation.
func BuildArgs(buildDir string, jobs int) []string {
	return []string{"--build", buildDir, "-j", strconv.Itoa(jobs)}
}

// InstallArgs returns the arguments of the install invocation.
func InstallArgs(buildDir string, jobs int) []string {
	return []string{"--build", buildDir, "--target", "install", "-j", strconv.Itoa(jobs)}
}
