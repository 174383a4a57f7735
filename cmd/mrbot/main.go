package main

import (
	"os"

	"github.com/chipkajb/mr-bot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
