//go:build !unix

package env

import "runtime"

// System returns GOOS_GOARCH on systems without uname(2).
func System() string {
	return runtime.GOOS + "_" + runtime.GOARCH
}
