package main

import (
	"os"

	"github.com/rustyeddy/ptsim/cmd/ptsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
