//go:build unix

package env

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// System derives a system identifier such as "Linux_x86_64" from uname(2).
func System() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return fallbackSystem()
	}
	sysname := unix.ByteSliceToString(uts.Sysname[:])
	machine := unix.ByteSliceToString(uts.Machine[:])
	if sysname == "" || machine == "" {
		return fallbackSystem()
	}
	return sysname + "_" + machine
}

func fallbackSystem() string {
	return runtime.GOOS + "_" + runtime.GOARCH
}
