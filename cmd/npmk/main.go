package main

import (
	"os"

	"github.com/bnema/novelpia-prompt-maker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
