package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mgijax/mousemine-dumper/internal/cmd"
	"github.com/mgijax/mousemine-dumper/internal/exitcode"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cmd.ExecuteContext(ctx)
	interrupted := ctx.Err() != nil

	stop()

	if err != nil {
		if interrupted {
			fmt.Fprintln(os.Stderr, "\nOperation cancelled")
			exitcode.Exit(exitcode.Interrupted)
		}

		code := exitcode.FromError(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n%s (exit code %d)\n", err, exitcode.Describe(code), code)
		exitcode.Exit(code)
	}

	exitcode.Exit(exitcode.Success)
}
