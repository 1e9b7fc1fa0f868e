package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/balkashynov/llmlog/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	commands.SetVersion(version, commit, date)
	if err := commands.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "llmlog: %v\n", err)
		stop()
		os.Exit(1)
	}
}
