//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Test runs the full unit test suite.
func Test() error {
	return runGo("test", "./...")
}

// Vet runs go vet across the module.
func Vet() error {
	return runGo("vet", "./...")
}

// Check runs vet and the test suite, in that order.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// runGo executes a go subcommand with output wired to the terminal.
func runGo(args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go %s: %w", args[0], err)
	}
	return nil
}
