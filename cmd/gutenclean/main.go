// Package main is the entry point for the gutenclean CLI.
package main

import (
	"os"

	"github.com/literaryqa/gutenclean/cmd/gutenclean/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
