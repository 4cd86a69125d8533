package main

import (
	"github.com/scavenger/screenshot-scavenger/cmd/scavenger-cli/cmd"
	"github.com/scavenger/screenshot-scavenger/internal/raster"
)

func main() {
	raster.Startup()
	defer raster.Shutdown()

	cmd.Execute()
}
