package main

import (
	"fmt"

	"github.com/parleychat/parley"
)

// ProvidersCmd lists the providers parley knows how to talk to.
type ProvidersCmd struct{}

// Run executes the providers command.
func (c *ProvidersCmd) Run(cli *CLI) error {
	for _, name := range parley.Providers() {
		base, _ := parley.DefaultBaseURL(name)
		fmt.Printf("%-12s %s\n", name, base)
	}
	return nil
}
