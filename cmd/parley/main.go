// parley is a terminal chat client for LLM providers.
package main

import (
	"log"
	"os"

	"github.com/alecthomas/kong"
)

func main() {
	cli := CLI{}

	// First pass: parse to get --config path
	parser, err := kong.New(&cli,
		kong.Name("parley"),
		kong.Description("Terminal chat client for LLM providers"),
	)
	if err != nil {
		log.Fatalf("failed to create parser: %v", err)
	}

	// First pass ignores errors (we just need the config path)
	_, _ = parser.Parse(os.Args[1:])

	// Load config file (if provided)
	values, err := LoadConfigFile(cli.Config)
	if err != nil {
		log.Fatalf("failed to load config file: %v", err)
	}

	// Validate version if config was loaded
	if len(values) > 0 {
		if err := ValidateConfigVersion(configVersion(values)); err != nil {
			log.Fatalf("config error: %v", err)
		}
	}

	// Second pass: file values resolve beneath CLI flags and env vars
	ctx := kong.Parse(&cli,
		kong.Name("parley"),
		kong.Description("Terminal chat client for LLM providers"),
		kong.UsageOnError(),
		kong.Resolvers(fileResolver(values)),
	)

	setupLogger(cli.Verbose)

	err = ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
