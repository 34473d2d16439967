// Command pixflow renders YAML node graphs.
//
// Usage:
//
//	pixflow render -g graph.yaml [--node id] [--rect x,y,w,h] [--chunk 128] [--metrics] [--watch]
//	pixflow info -g graph.yaml [--node id]
//	pixflow ops
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
