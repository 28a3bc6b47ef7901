// Package main is the entry point for the finhub admin CLI.
package main

import (
	"os"

	"finhub/cmd/admin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
