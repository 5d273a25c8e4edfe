package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robotomize/gorates/internal/cli"
	"github.com/robotomize/gorates/internal/config"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := realMain(ctx)
	done()

	if err != nil {
		os.Exit(1)
	}
}

func realMain(ctx context.Context) error {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	return cli.NewRootCmd(cfg).ExecuteContext(ctx)
}
