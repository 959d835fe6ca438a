package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/roach88/pulsenet/internal/cli"
	"github.com/roach88/pulsenet/internal/digest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cli.NewRootCommand()
	rootCmd.Version = digest.EngineVersion

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
