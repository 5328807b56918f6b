package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/parleychat/parley"
)

// AskCmd sends one prompt and prints the streamed reply.
type AskCmd struct {
	Prompt []string `arg:"" help:"Prompt text"`
}

// Run executes the ask command.
func (c *AskCmd) Run(cli *CLI) error {
	if err := cli.requireModel(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	client := cli.NewClient()
	req := cli.Request([]parley.Message{{
		Role:    parley.RoleUser,
		Content: strings.Join(c.Prompt, " "),
	}})

	err := client.Stream(ctx, req, func(ctx context.Context, token string) error {
		_, err := fmt.Print(token)
		return err
	})
	fmt.Println()
	return err
}
