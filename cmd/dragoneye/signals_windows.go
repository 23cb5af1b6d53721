//go:build windows

package main

import (
	"context"
	"os"

	"github.com/tauraamui/dragoneye/pkg/dragon"
)

// Windows has no user signals, so captures and group switches are not
// reachable from outside the process.
func notifyControlSignals() chan os.Signal {
	return make(chan os.Signal)
}

func stopControlSignals(chan os.Signal) {}

func handleControlSignal(context.Context, dragon.Server, os.Signal) {}
