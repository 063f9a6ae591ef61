package main

import (
	"os"

	"github.com/David-Botos/data-cleaning/cmd/datacleaner/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
