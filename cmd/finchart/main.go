package main

import (
	"fmt"
	"os"

	"FinChart/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "finchart: %v\n", err)
		os.Exit(1)
	}
}
