// Package main provides the quill CLI, a client for the quill entity
// service: it mirrors the user's worldbuilding projects locally, issues
// confirmed mutations against the service, and keeps an offline snapshot.
// See docs/ARCHITECTURE.md § CLI.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
