// cmd/goroots/main.go: goroots command line
//
// Usage:
//
//	go run ./cmd/goroots solve "x^2 - 2" --method newton --a 1
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/njchilds90/goroots/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
