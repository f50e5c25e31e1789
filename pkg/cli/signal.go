package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raudyagdel/veracli/pkg/defaults"
	"github.com/raudyagdel/veracli/pkg/ui"
)

// SignalContext returns a context cancelled on SIGINT or SIGTERM, which
// stops a running scan. A second signal within gracePeriod exits the
// process with defaults.ExitInterrupted.
//
//	ctx, cancel := cli.SignalContext(defaults.ShutdownGrace)
//	defer cancel()
func SignalContext(gracePeriod time.Duration) (context.Context, context.CancelFunc) {
	return signalContextWithNotifier(gracePeriod, nil, nil)
}

// signalContextWithNotifier lets tests inject the signal channel and the
// exit function.
func signalContextWithNotifier(
	gracePeriod time.Duration,
	sigChan chan os.Signal,
	exitFn func(int),
) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	ownChannel := sigChan == nil
	if ownChannel {
		sigChan = make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	}
	if exitFn == nil {
		exitFn = os.Exit
	}

	go func() {
		defer func() {
			if ownChannel {
				signal.Stop(sigChan)
			}
		}()

		select {
		case <-ctx.Done():
			return
		case <-sigChan:
		}

		ui.PrintWarning("Interrupt received, stopping scan (press Ctrl+C again to force exit)")
		cancel()

		timer := time.NewTimer(gracePeriod)
		defer timer.Stop()
		select {
		case <-sigChan:
			exitFn(defaults.ExitInterrupted)
		case <-timer.C:
		}
	}()

	return ctx, cancel
}
