package main

import (
	"github.com/bnema/nexus/internal/cli/cmd"
)

// Build information, injected at build time via ldflags.
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
