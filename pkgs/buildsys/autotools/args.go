package autotools

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hyperk/hkpilot/pkgs/deps"
)

const (
	// Script is the configure script generated by autoconf.
	Script = "configure"
	// Make runs the build and install steps.
	Make = "make"

	// PrefixOption is the option key holding the install prefix.
	PrefixOption = "prefix"
)

// isVariable reports whether key names a variable passed to configure as
// KEY=VALUE, such as CC or CFLAGS, rather than a --key switch.
func isVariable(key string) bool {
	for _, r := range key {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_') {
			return false
		}
	}
	return key != ""
}

// OptionArgs renders options sorted by key. Upper-case keys become
// KEY=VALUE; other keys become --key=value, or --key when value is empty.
func OptionArgs(options map[string]string) []string {
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
		v := options[k]
		switch {
		case isVariable(k):
			args = append(args, k+"="+v)
		case v == "":
			args = append(args, "--"+k)
		default:
			args = append(args, "--"+k+"="+v)
		}
	}
	return args
}

// DependencyVars returns the PKG_CONFIG_PATH, CPPFLAGS and LDFLAGS values
// pointing at installDir(name) of every declared dependency. Only
// folders that exist contribute, and a variable already set in options is
// left alone.
func DependencyVars(set deps.Set, options map[string]string, installDir func(name string) string) map[string]string {
	var pkgConfig, cppFlags, ldFlags []string
	for _, name := range set.Names() {
		dir := installDir(name)
		if isDir(filepath.Join(dir, "lib", "pkgconfig")) {
			pkgConfig = append(pkgConfig, filepath.Join(dir, "lib", "pkgconfig"))
		}
		if isDir(filepath.Join(dir, "include")) {
			cppFlags = append(cppFlags, "-I"+filepath.Join(dir, "include"))
		}
		if isDir(filepath.Join(dir, "lib")) {
			ldFlags = append(ldFlags, "-L"+filepath.Join(dir, "lib"))
		}
	}

	vars := make(map[string]string)
	add := func(key, value string) {
		if _, ok := options[key]; ok || value == "" {
			return
		}
		vars[key] = value
	}
	add("PKG_CONFIG_PATH", strings.Join(pkgConfig, string(os.PathListSeparator)))
	add("CPPFLAGS", strings.Join(cppFlags, " "))
	add("LDFLAGS", strings.Join(ldFlags, " "))
	return vars
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// ConfigureArgs returns the arguments of the configure script: the options
// followed by the dependency variables, both sorted by key.
func ConfigureArgs(options, vars map[string]string) []string {
	args := OptionArgs(options)
	return append(args, OptionArgs(vars)...)
}

// BuildArgs returns the make arguments of the build step.
func BuildArgs(jobs int) []string {
	return []string{"-j", strconv.Itoa(jobs)}
}

// InstallArgs returns the make arguments of the install step.
func InstallArgs(jobs int) []string {
	return []string{"-j", strconv.Itoa(jobs), "install"}
}
