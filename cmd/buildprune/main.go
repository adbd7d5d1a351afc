package main

import (
	"fmt"
	"os"

	"github.com/viant/buildprune/cli"
)

func main() {
	if err := cli.New().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "buildprune: %v\n", err)
		os.Exit(1)
	}
}
