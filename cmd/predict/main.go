package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jeevanbnj/F-Glu/internal/api/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], cli.Options{
		NewClassifier: cli.LoadONNXClassifier,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
	})
	stop()
	os.Exit(code)
}
