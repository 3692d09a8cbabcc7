// Package version orders dependency version strings.
//
// Versions written as semver ("v11.1.1") are ordered with golang.org/x/mod/semver.
// Everything else ("6.28.04", "11.1.p01") falls back to the GNU strverscmp
// ordering used by dpkg and coreutils sort -V.
package version

import "golang.org/x/mod/semver"

// Compare returns a negative number if a < b, zero if a == b and a
// positive number if a > b.
func Compare(a, b string) int {
	if semver.IsValid(a) && semver.IsValid(b) {
		return semver.Compare(a, b)
	}
	return gnuCompare(a, b)
}

// Max returns the higher of a and b. An empty version loses against any
// non-empty one.
func Max(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	case Compare(a, b) < 0:
		return b
	}
	return a
}
