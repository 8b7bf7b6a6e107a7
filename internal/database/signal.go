package database

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dbsmedya/gomerge/internal/logger"
)

// SetupSignalHandler returns a context that is canceled on SIGTERM or SIGINT,
// so a schema read in progress is abandoned cleanly. The returned cancel
// function stops signal delivery and must be called.
func SetupSignalHandler(parent context.Context, log *logger.Logger) (context.Context, context.CancelFunc) {
	log = logger.OrNop(log)
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Warnw("shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
