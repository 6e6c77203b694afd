package main

import (
	"os"

	"github.com/rustyeddy/gridrecon/cmd/gridrecon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
