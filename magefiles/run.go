//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the binary and runs it with the testbed scene.
func (Run) Engine() error {
	mg.Deps(Build.Engine)
	fmt.Println("Run engine...")
	if _, err := executeCmd(binaryPath, withArgs("-config", "testbed/scene.toml"), withStream()); err != nil {
		return err
	}
	return nil
}
