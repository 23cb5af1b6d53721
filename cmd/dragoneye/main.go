package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tacusci/logging/v2"
	"github.com/takama/daemon"
	"github.com/tauraamui/dragoneye/pkg/config"
	"github.com/tauraamui/dragoneye/pkg/configdef"
	"github.com/tauraamui/dragoneye/pkg/dragon"
	"github.com/tauraamui/dragoneye/pkg/dragon/process"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/dragoneye/pkg/source"
	"github.com/tauraamui/dragoneye/pkg/source/sourcebackend"
)

const (
	name        = "dragoneye"
	description = "Dragon eye service daemon which fuses colour, depth and infrared sensor streams"
)

const statsInterval = 30 * time.Second

type Service struct {
	daemon.Daemon
}

// Setup writes the default config file.
func (service *Service) Setup() (string, error) {
	log.Info("Setting up dragoneye service...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func (service *Service) RemoveSetup() (string, error) {
	log.Info("Removing setup for dragoneye service...")
	err := config.DefaultDestroyer().Destroy()
	if err != nil {
		log.Error("unable to delete config file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

func (service *Service) Manage() (string, error) {
	usage := "Usage: dragoneye setup | remove-setup | install | remove | start | stop | status"

	if len(os.Args) > 1 {
		command := os.Args[1]
		switch command {
		case "setup":
			return service.Setup()
		case "remove-setup":
			return service.RemoveSetup()
		case "install":
			return service.Install()
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		default:
			return usage, nil
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	log.Info("Starting dragoneye...")

	backendName := os.Getenv("DRAGONEYE_SOURCE_BACKEND")
	server := dragon.NewServer(
		config.DefaultResolver(),
		dragon.WithBackend(func(groups []configdef.SourceGroup) source.Backend {
			return sourcebackend.Resolve(backendName, groups)
		}),
	)
	if err := server.LoadConfiguration(); err != nil {
		log.Fatal(err.Error())
	}

	ctx, cancelStartup := context.WithCancel(context.Background())
	if err := server.Start(ctx); err != nil {
		log.Fatal(err.Error())
	}

	statsReporter := process.New(process.Settings{
		WaitForShutdownMsg: "Stopping stats reporter...",
		Process:            process.Ticker(statsInterval, func(context.Context) { logStats(server) }),
	})
	statsReporter.Setup().Start()

	controls := notifyControlSignals()
	defer stopControlSignals(controls)

waitForInterrupt:
	for {
		select {
		case sig := <-controls:
			handleControlSignal(ctx, server, sig)
		case killSignal := <-interrupt:
			fmt.Print("\r")
			log.Error("Received signal: %s", killSignal)
			break waitForInterrupt
		}
	}

	cancelStartup()
	statsReporter.Stop()
	statsReporter.Wait()

	log.Info("Shutting down server...")
	<-server.Shutdown()
	logStats(server)

	return "Shutdown successful... BYE! 👋", nil
}

func logStats(server dragon.Server) {
	stats := server.Stats()
	log.Info("Synchronized sets dispatched: %d, frames overwritten before dispatch: %d",
		stats.Aggregate.Dispatched, stats.Aggregate.Overwritten)
	for target, s := range stats.Targets {
		if s.Published == 0 {
			continue
		}
		log.Info("Target [%s] published: %d, superseded: %d, presented: %d, failed: %d",
			target, s.Published, s.Superseded, s.Presented, s.Failed)
	}
}

func init() {
	log.SetLevel(os.Getenv("DRAGONEYE_LOGGING_LEVEL"))
}

func main() {
	daemonType := daemon.SystemDaemon
	if runtime.GOOS == "darwin" {
		daemonType = daemon.UserAgent
	}

	srv, err := daemon.New(name, description, daemonType)
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	logging.Info(status) //nolint
}
