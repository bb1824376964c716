package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/config"
	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/logger"
)

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "clusterctl",
		Short:         "Topic ensemble command line tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "config file (overrides CONFIG_PATH)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log loading details to stderr")

	root.AddCommand(newPredictCmd())
	root.AddCommand(newArtifactsCmd())
	root.AddCommand(newLabelsCmd())

	return root
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig applies --config and loads the service configuration
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to read 'config' flag: %w", err)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		if err := os.Setenv(config.ConfigPathEnvVar, path); err != nil {
			return nil, err
		}
	}
	return config.Load()
}

// newLogger logs to stderr, and only warnings unless --verbose is set
func newLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to read 'verbose' flag: %w", err)
	}
	logCfg := config.LogConfig{Level: "warn", Format: "console"}
	if verbose {
		logCfg.Level = cfg.Log.Level
	}
	return logger.NewLogger(&logCfg, logger.WithOutput(cmd.ErrOrStderr()), logger.WithName("clusterctl"))
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
