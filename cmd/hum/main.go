package main

import (
	"os"

	"github.com/humdle/humdle-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
