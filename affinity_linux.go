//go:build linux

package thinwrap

import "golang.org/x/sys/unix"

const affinitySupported = true

// threadID returns the id of the OS thread running the caller.
func threadID() int {
	return unix.Gettid()
}
