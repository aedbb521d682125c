package main

import (
	"os"

	"github.com/birddog/teddy/cmd/teddy/commands"
)

// main is the entry point for the Teddy CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
