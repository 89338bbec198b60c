// Command thinwrap generates ownership wrappers for foreign handles from a
// YAML manifest.
package main

import (
	"os"

	"github.com/syssam/thinwrap/cmd/thinwrap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
