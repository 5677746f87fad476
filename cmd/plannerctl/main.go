package main

import (
	"os"

	"github.com/iliyamo/cinema-marathon-planner/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
