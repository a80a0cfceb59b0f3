// cmd/engagement/main.go
// Command-line client for the reaction service: load and toggle reactions
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"Agora/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
