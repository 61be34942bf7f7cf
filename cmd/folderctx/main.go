package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/arbor-labs/folderctx/internal/adapters/driving/cli"
)

func main() {
	// Missing .env files are fine; the environment wins either way.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
