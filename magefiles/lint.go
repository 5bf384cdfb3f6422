//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/sh"
)

const (
	binLint  = "golangci-lint"
	binGofmt = "gofmt"
)

// Lint checks formatting, then runs golangci-lint.
func Lint() error {
	out, err := sh.Output(binGofmt, "-l", "cmd", "internal", "pkg", "tests", "magefiles")
	if err != nil {
		return err
	}
	if out = strings.TrimSpace(out); out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return sh.RunV(binLint, "run", "./...")
}
