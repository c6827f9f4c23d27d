// Package main is the entry point for the chirp social data store.
package main

import (
	"fmt"
	"os"

	"chirp/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "chirp: %v\n", err)
		os.Exit(1)
	}
}
