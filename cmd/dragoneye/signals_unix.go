//go:build !windows

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tauraamui/dragoneye/pkg/dragon"
	"github.com/tauraamui/dragoneye/pkg/log"
)

// SIGUSR1 requests a capture, SIGUSR2 moves on to the next source group.
func notifyControlSignals() chan os.Signal {
	controls := make(chan os.Signal, 1)
	signal.Notify(controls, syscall.SIGUSR1, syscall.SIGUSR2)
	return controls
}

func stopControlSignals(controls chan os.Signal) {
	signal.Stop(controls)
}

func handleControlSignal(ctx context.Context, server dragon.Server, sig os.Signal) {
	switch sig {
	case syscall.SIGUSR1:
		server.RequestCapture()
	case syscall.SIGUSR2:
		if !server.PickNextSourceGroup(ctx) {
			log.Warn("Unable to switch to next source group")
		}
	}
}
