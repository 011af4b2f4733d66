package cli

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"studio/internal/metrics"
)

// DefaultSlowCommand is the threshold above which a command logs at WARN.
const DefaultSlowCommand = 200 * time.Millisecond

type handler func(a *App, ctx context.Context, args []string) error

// timed wraps a command handler with duration logging and observation.
// Normal commands log at DEBUG; slow commands log at WARN.
func timed(name string, next handler, observer prometheus.ObserverVec, threshold time.Duration) handler {
	return func(a *App, ctx context.Context, args []string) error {
		start := time.Now()
		err := next(a, ctx, args)
		elapsed := time.Since(start)

		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		if observer != nil {
			observer.WithLabelValues(name, outcome).Observe(elapsed.Seconds())
		}

		evt := log.Debug()
		if elapsed > threshold {
			evt = log.Warn()
		}
		evt.Str("command", name).Str("outcome", outcome).Dur("elapsed", elapsed).Msg("command_event")
		return err
	}
}

// commandObserver is the histogram Run records into.
var commandObserver prometheus.ObserverVec = metrics.CommandDuration
