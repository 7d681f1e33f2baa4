package main

import (
	"os"

	"github.com/tracklite-dev/tracklite/cmd/trackctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
