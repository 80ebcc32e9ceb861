package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	shellconfig "github.com/AntonStoeckl/casino-floor-simulation/shell/config"
)

const serviceName = "casinosim"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Concurrent casino floor simulation",
	Long: `casinosim simulates customers moving through a casino: parking, playing at game tables, ` +
		`ordering at bars, dining in restaurants and sleeping in the hotel. ` +
		`Every action is recorded as a domain event into an optional journal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if envFile == "" {
			return shellconfig.LoadEnv()
		}

		return shellconfig.LoadEnv(envFile)
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().String("env-file", "", "load environment variables from this file instead of ./.env")
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}

	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q", format)
	}
}
