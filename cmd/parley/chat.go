package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/parleychat/parley"
)

// ChatCmd runs an interactive chat session.
type ChatCmd struct{}

// Run executes the chat command.
func (c *ChatCmd) Run(cli *CLI) error {
	if err := cli.requireModel(); err != nil {
		return err
	}

	client := cli.NewClient()
	scanner := bufio.NewScanner(os.Stdin)
	var history []parley.Message

	fmt.Printf("%s via %s. /reset clears the conversation, /quit leaves.\n", cli.Model, cli.Provider)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			history = history[:0]
			fmt.Println("conversation cleared")
			continue
		}

		history = append(history, parley.Message{Role: parley.RoleUser, Content: line})

		var reply strings.Builder
		err := client.Stream(context.Background(), cli.Request(history), func(ctx context.Context, token string) error {
			reply.WriteString(token)
			_, err := fmt.Print(token)
			return err
		})
		fmt.Println()
		if err != nil {
			// Drop the failed turn so the next prompt starts clean.
			history = history[:len(history)-1]
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		history = append(history, parley.Message{Role: parley.RoleAssistant, Content: reply.String()})
	}

	return scanner.Err()
}
