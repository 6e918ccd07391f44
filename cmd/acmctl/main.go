// Package main is the entry point for the acmctl CLI binary.
package main

import (
	"os"

	cli "acm/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
