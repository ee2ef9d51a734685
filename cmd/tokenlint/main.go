package main

import (
	"os"

	"tokenlint/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
