// Package main provides the typelayout CLI.
package main

import "github.com/mesh-intelligence/typelayout/internal/cli"

func main() {
	cli.Execute()
}
