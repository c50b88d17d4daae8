// Package main provides gobjctl, an operational CLI for inspecting and
// maintaining a gobj store directory. It is built with cobra, matching the
// command-line convention used elsewhere in this project's ecosystem.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
