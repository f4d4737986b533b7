package main

import (
	"os"

	"github.com/lazypower/cmv/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
