package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/parleychat/parley"
	"github.com/parleychat/parley/middleware"
)

// ConfigVersion is the current config file version.
const ConfigVersion = "v1"

// CLI is the root command structure for parley.
// It serves as the single source of truth for CLI flags, env vars, and config files.
type CLI struct {
	// Global flags (shared across all subcommands)
	Config  string `short:"c" help:"Path to config file" type:"path"`
	Verbose bool   `short:"v" help:"Verbose output"`

	// Connection settings (populated from flags, env and config file)
	Provider string        `short:"p" help:"Provider to talk to" default:"openai" env:"PARLEY_PROVIDER"`
	Model    string        `short:"m" help:"Model to request" env:"PARLEY_MODEL"`
	APIKey   string        `help:"Provider API key" env:"PARLEY_API_KEY"`
	BaseURL  string        `help:"Override the provider base URL" env:"PARLEY_BASE_URL"`
	System   string        `help:"System prompt for the conversation" env:"PARLEY_SYSTEM"`
	Timeout  time.Duration `help:"Whole-call timeout" default:"2m" env:"PARLEY_TIMEOUT"`
	Retries  int           `help:"Attempts per call" default:"1" env:"PARLEY_RETRIES"`

	// Subcommands
	Chat      ChatCmd      `cmd:"" default:"1" help:"Interactive chat session"`
	Ask       AskCmd       `cmd:"" help:"Send one prompt and print the streamed reply"`
	Providers ProvidersCmd `cmd:"" help:"List known providers"`
}

// LoadConfigFile reads a YAML config file into a flat key/value map.
// Keys are the camelCase forms of the flag names (apiKey for --api-key)
// plus the mandatory version key. If the path is empty, this is a no-op.
func LoadConfigFile(path string) (map[string]interface{}, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	values := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return values, nil
}

// configVersion pulls the version key out of a loaded config file.
// Version is not flag-bound; it only ever rides in the file.
func configVersion(values map[string]interface{}) string {
	v, _ := values["version"].(string)
	return v
}

// ValidateConfigVersion checks that the config file version is supported.
func ValidateConfigVersion(version string) error {
	if version == "" {
		return fmt.Errorf("config file missing 'version' field (expected: %s)", ConfigVersion)
	}

	switch version {
	case "v1":
		return nil
	default:
		return fmt.Errorf("unsupported config version %q (supported: %s)", version, ConfigVersion)
	}
}

// fileResolver exposes loaded config values to kong, which resolves
// them beneath command-line flags and environment variables but above
// declared defaults.
func fileResolver(values map[string]interface{}) kong.Resolver {
	return kong.ResolverFunc(func(ctx *kong.Context, parent *kong.Path, flag *kong.Flag) (interface{}, error) {
		if flag.Name == "config" {
			return nil, nil
		}
		// A set env var keeps precedence over the file.
		for _, env := range flag.Envs {
			if _, ok := os.LookupEnv(env); ok {
				return nil, nil
			}
		}
		v, ok := values[yamlKey(flag.Name)]
		if !ok {
			return nil, nil
		}
		if s, isString := v.(string); isString {
			return s, nil
		}
		// Hand scalars to kong as strings, the same form flag values
		// arrive in.
		return fmt.Sprintf("%v", v), nil
	})
}

// yamlKey converts a flag name to its config file key: "api-key" -> "apiKey".
func yamlKey(name string) string {
	parts := strings.Split(name, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// NewClient builds a parley client from the configured settings. The
// timeout middleware sits outermost so retries share one deadline.
func (cli *CLI) NewClient() *parley.Client {
	opts := []parley.Option{
		parley.WithLogger(slog.Default()),
		parley.WithUserAgent("parley/" + parley.Version),
	}
	if cli.Timeout > 0 {
		opts = append(opts, parley.WithMiddleware(middleware.NewTimeoutMiddleware(cli.Timeout)))
	}
	if cli.Retries > 1 {
		opts = append(opts, parley.WithMiddleware(middleware.NewRetryMiddleware(cli.Retries, time.Second)))
	}
	return parley.New(opts...)
}

// Request assembles a stream request carrying the conversation so far.
func (cli *CLI) Request(history []parley.Message) *parley.StreamRequest {
	msgs := history
	if cli.System != "" {
		msgs = make([]parley.Message, 0, len(history)+1)
		msgs = append(msgs, parley.Message{Role: parley.RoleSystem, Content: cli.System})
		msgs = append(msgs, history...)
	}
	return &parley.StreamRequest{
		Provider: cli.Provider,
		Model:    cli.Model,
		APIKey:   cli.APIKey,
		BaseURL:  cli.BaseURL,
		Messages: msgs,
	}
}

// requireModel guards commands that dial a provider.
func (cli *CLI) requireModel() error {
	if cli.Model == "" {
		return fmt.Errorf("no model configured (set --model or PARLEY_MODEL)")
	}
	return nil
}
