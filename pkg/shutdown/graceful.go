package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// WithSignals returns a context cancelled on SIGINT or SIGTERM.
func WithSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// Drain runs the stop functions in order, each bounded by the shared timeout.
func Drain(log *slog.Logger, timeout time.Duration, stops ...func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, stop := range stops {
		if err := stop(ctx); err != nil {
			log.Error("shutdown step failed", "err", err)
		}
	}
}
