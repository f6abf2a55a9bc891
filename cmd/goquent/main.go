// Package main is the entry point for the goquent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/goquent/goquent/cmd/goquent/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
