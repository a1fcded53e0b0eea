package main

import (
	"context"
	"fmt"
	"os"

	"github.com/KOFI-GYIMAH/github-tail/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
