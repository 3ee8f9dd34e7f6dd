package main

import (
	"fmt"
	"os"

	"github.com/Dan9191/cash-coach/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
