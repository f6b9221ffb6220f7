package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ByLCY/sticker/cli"
	stickererrors "github.com/ByLCY/sticker/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stdout, os.Stderr)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		c.Logger.Debug("command failed", "err", err)
		c.Logger.Error(stickererrors.UserMessage(err), "code", stickererrors.GetCode(err))
		os.Exit(1)
	}
}
