package main

import (
	"os"

	"github.com/gigapp/gig/backend/cmd/gig/commands"
)

// main is the entry point for the Gig CLI
// ⭐ single CLI entry point: go run ./cmd/gig [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
