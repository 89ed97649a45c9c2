//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const binaryPath = "bin/shoreline"

// Downloads the modules and builds the engine binary.
func (Build) Engine() error {
	if err := goModDownload(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", binaryPath, "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go vet on every package.
func (Build) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}
