//go:build !linux

package thinwrap

const affinitySupported = false

func threadID() int {
	return 0
}
