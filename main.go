// The main package for the leadharvester executable.
package main

import (
	"github.com/mapleads/lead-harvester/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
