package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/trunkradio/radiosim/internal/eventsink"
	"github.com/trunkradio/radiosim/internal/model"
	"github.com/trunkradio/radiosim/internal/simapi"
	"github.com/trunkradio/radiosim/internal/simconfig"
)

func newRunCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulator and accept commands on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulator(watch)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "hot-reload the configuration file on change (overrides WATCH_CONFIG)")
	return cmd
}

func runSimulator(watchFlag bool) error {
	startTime := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg.LogLevel)
	log.Info().Str("version", version).Str("config", cfg.ConfigPath).Msg("radiosim starting")

	_, registry, err := buildSystem(cfg.ConfigPath, cfg.RandomSeed, log)
	if err != nil {
		return err
	}

	if cfg.WatchConfig || watchFlag {
		watcher := simconfig.NewWatcher(cfg.ConfigPath, log)
		watcher.OnReload = func(c *model.SystemConfig) {
			log.Warn().Msg("configuration changed on disk; restart radiosim to apply it to a running simulation")
		}
		if err := watcher.Start(); err != nil {
			log.Warn().Err(err).Msg("could not start config watcher")
		} else {
			defer watcher.Stop()
		}
	}

	var sink *eventsink.Sink
	if cfg.MQTTBrokerURL != "" {
		sink, err = eventsink.Connect(eventsink.Options{
			BrokerURL: cfg.MQTTBrokerURL,
			ClientID:  cfg.MQTTClientID,
			TopicRoot: cfg.MQTTTopicRoot,
			Username:  cfg.MQTTUsername,
			Password:  cfg.MQTTPassword,
			Log:       log.With().Str("component", "eventsink").Logger(),
		})
		if err != nil {
			log.Warn().Err(err).Msg("event sink connect failed, continuing without it")
		} else {
			defer sink.Close()
			for _, id := range registry.ZoneIDs() {
				zc, _ := registry.Zone(id)
				zc.Tap(sink.ForZone(id))
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiServer := simapi.NewServer(simapi.ServerOptions{
		Config:    cfg,
		Zones:     registry,
		Version:   version,
		StartTime: startTime,
		Log:       log,
	})
	go func() {
		if err := apiServer.ListenAndServe(); err != nil {
			log.Error().Err(err).Msg("introspection API stopped")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = apiServer.Shutdown(shutdownCtx)
	}()

	proc := newCommandProcessor(registry)
	scanner := bufio.NewScanner(os.Stdin)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if !proc.execute(line) {
				return nil
			}
		}
	}
}
