package main

import (
	"context"
	"fmt"
	"os"

	"github.com/flash-protocol/flash-deployer/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if _, err := cli.Execute(context.Background(), rootCmd); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
