package main

import (
	"os"

	"cricket-stats-game/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
