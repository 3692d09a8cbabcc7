package deps

import (
	"sort"

	"github.com/hyperk/hkpilot/pkgs/version"
)

// Set maps a dependency name to what was declared for it.
type Set map[string]Dependency

// Add records dep. If the name is already present the higher version wins.
func (s Set) Add(dep Dependency) {
	if cur, ok := s[dep.Name]; ok {
		dep.Version = version.Max(cur.Version, dep.Version)
	}
	s[dep.Name] = dep
}

// Merge adds every entry of other to s.
func (s Set) Merge(other Set) {
	for name, dep := range other {
		dep.Name = name
		s.Add(dep)
	}
}

// Has reports whether name was declared.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the declared names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
