// Package main is the entry point for the memcard CLI.
package main

import (
	"os"

	"github.com/f3rmion/memcard/cmd/memcard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
