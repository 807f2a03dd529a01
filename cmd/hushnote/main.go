package main

import (
	"os"

	"github.com/hushnote/hushnote/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
