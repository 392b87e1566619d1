package cmd

import (
	"context"
	"os/signal"
)

// setupShutdownHandler returns a context canceled by the first shutdown
// signal. A second signal gets the default behavior and kills the process.
func setupShutdownHandler() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}
