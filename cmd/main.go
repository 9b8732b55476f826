package main

import (
	"os"

	"trivia-board-host/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
