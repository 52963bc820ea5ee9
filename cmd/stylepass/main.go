package main

import (
	"os"

	"stylepass/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
