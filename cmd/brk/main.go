// Package main is the entry point for the brk CLI client.
package main

import (
	"github.com/dmreiland/bookrank/cmd/brk/cmd"
)

func main() {
	cmd.Execute()
}
