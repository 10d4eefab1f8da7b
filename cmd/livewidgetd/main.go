// Package main provides the entry point for the live-widget provider
// master. main itself does nothing but delegate to bootstrap.Run, keeping
// flag parsing, dependency wiring, and signal handling inside the
// bootstrap package where they can be exercised by tests.
package main

import (
	"os"

	"github.com/kodflow/livewidgetd/internal/bootstrap"
)

func main() {
	os.Exit(bootstrap.Run())
}
