// Package main is the entry point for the Carson CLI.
package main

import (
	"os"

	"github.com/carsonhq/carson-bot/cmd/carson/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
