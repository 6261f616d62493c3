package main

import (
	"os"

	"github.com/akverma/signalrunner/cmd/signalrunner/commands"
)

// main is the entry point for the signalrunner CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
