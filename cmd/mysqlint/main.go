// Package main provides the mysqlint command.
package main

import (
	"os"

	"github.com/leapstack-labs/mysqlint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
