package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ressKim-io/topic-ensemble/internal/adapter/client"
	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/bootstrap"
	"github.com/ressKim-io/topic-ensemble/internal/usecase"
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict <description>",
		Short: "Classify a description",
		Long: `Classify a description with the model ensemble.

By default the configured artifacts are loaded in-process. With --remote the
description is sent to a running service instead.

Example:
  clusterctl predict "Матч закончился со счётом 2:1"
  clusterctl predict --remote http://localhost:6006 "Рынок акций вырос"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := strings.Join(args, " ")

			remote, err := cmd.Flags().GetString("remote")
			if err != nil {
				return fmt.Errorf("failed to read 'remote' flag: %w", err)
			}
			if remote != "" {
				return predictRemote(cmd, remote, description)
			}
			return predictLocal(cmd, description)
		},
	}

	cmd.Flags().String("remote", "", "base URL of a running prediction service")
	cmd.Flags().Duration("timeout", 10*time.Second, "request timeout for --remote")

	return cmd
}

func predictLocal(cmd *cobra.Command, description string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	app := bootstrap.Load(cmd.Context(), cfg, log)
	defer app.Close()

	uc := usecase.NewPredictUsecase(app.Registry, app.Labels, usecase.Options{
		MaxDescriptionLength: cfg.Predict.MaxDescriptionLength,
	}, log)

	output, err := uc.Predict(cmd.Context(), &usecase.PredictInput{Description: description})
	if err != nil {
		var failed *usecase.AllModelsFailedError
		if errors.As(err, &failed) {
			for model, reason := range failed.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", model, reason)
			}
		}
		return err
	}
	return printJSON(cmd.OutOrStdout(), output)
}

func predictRemote(cmd *cobra.Command, baseURL, description string) error {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to read 'timeout' flag: %w", err)
	}

	c := client.NewPredictClient(baseURL, timeout)
	output, err := c.Predict(cmd.Context(), description, uuid.New().String())
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Failure != nil {
			_ = printJSON(cmd.ErrOrStderr(), apiErr.Failure)
		}
		return err
	}
	return printJSON(cmd.OutOrStdout(), output)
}
