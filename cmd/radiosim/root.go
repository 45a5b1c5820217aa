package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/trunkradio/radiosim/internal/config"
)

// version, commit, and buildTime are injected at build time via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var overrides config.Overrides

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "radiosim",
		Short:         "Discrete-event trunked radio system simulator",
		Version:       version + " (commit=" + commit + ", built=" + buildTime + ")",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&overrides.EnvFile, "env-file", "", "path to .env file (default: .env)")
	root.PersistentFlags().StringVar(&overrides.ConfigPath, "config", "", "path to the system configuration YAML (overrides CONFIG_PATH)")
	root.PersistentFlags().StringVar(&overrides.APIAddr, "listen", "", "introspection API listen address (overrides API_ADDR)")
	root.PersistentFlags().StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	root.PersistentFlags().StringVar(&overrides.MQTTBrokerURL, "mqtt-url", "", "MQTT broker URL for the event sink (overrides MQTT_BROKER_URL)")

	root.AddCommand(newRunCommand())
	root.AddCommand(newValidateCommand())
	root.AddCommand(newScenarioCommand())

	return root
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(lvl)
}

func loadConfig() (*config.Config, error) {
	return config.Load(overrides)
}
