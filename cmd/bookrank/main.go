// Package main is the entry point for the bookrank server.
package main

import (
	"os"

	"github.com/dmreiland/bookrank/cmd/bookrank/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
