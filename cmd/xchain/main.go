// Package main implements xchain, a command which replays YAML chain
// scripts against a singly linked chain of strings.
//
// Usage:
//
//	xchain run demo.yaml --log-level INFO --log-format text
//	xchain ops
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
