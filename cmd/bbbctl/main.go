package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/johnquangdev/bigbluebutton/internal/cli"
)

func main() {
	// Cancel in-flight API calls on Ctrl-C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(&cli.CommandOptions{
		Out:  os.Stdout,
		Err:  os.Stderr,
		Args: os.Args[1:],
	})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
