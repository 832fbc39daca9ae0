//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed with the anima.toml in the repository root.
func (Run) Engine() error {
	mg.Deps(Build.Test)
	fmt.Println("Run engine...")
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "anima.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the testbed with debug logging and the metrics endpoint on :9100.
func (Run) Debug() error {
	if _, err := executeCmd("go", withArgs("run", ".", "-config", "magefiles/debug.toml"), withStream()); err != nil {
		return err
	}
	return nil
}
