// Command blueprint generates floor plans and builds them into a local building model.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/blueprint/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	cli.SetVersion(version)
	cli.SetFactory(newServices)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
