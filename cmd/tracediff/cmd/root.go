package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/tracediff/internal/config"
	"github.com/pstuifzand/tracediff/internal/logging"
)

var (
	configPath string
	logLevel   string
	overrides  []string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tracediff",
	Short: "Compare PCB trace layers between two board revisions",
	Long: `tracediff compares the copper traces of two SVG exports of a board.

Every path in the trace layer is stroked into a footprint polygon. Paths of
the new revision are then classified against the old one as duplicates,
touching connections, or conflicting overlaps, and the paths without a
counterpart are listed as added or removed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := setupLogging(logLevel); err != nil {
			return err
		}
		loaded, err := loadConfig(configPath, overrides)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/tracediff/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringArrayVar(&overrides, "set", nil, "override a config value, e.g. --set classify.workers=4")
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	logging.SetLogger(slog.New(handler))
	return nil
}

func loadConfig(path string, sets []string) (*config.Config, error) {
	var c *config.Config
	var err error
	if path != "" {
		c, err = config.LoadFromFile(path)
	} else {
		c, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, want key=value", kv)
		}
		if err := c.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// GetConfig returns the effective configuration
func GetConfig() *config.Config {
	return cfg
}
