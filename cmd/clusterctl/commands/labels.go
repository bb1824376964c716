package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	csvrepo "github.com/ressKim-io/topic-ensemble/internal/adapter/repository/csv"
	"github.com/ressKim-io/topic-ensemble/internal/domain/entity"
	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/bootstrap"
	"github.com/ressKim-io/topic-ensemble/internal/infrastructure/config"
)

func newLabelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Manage the cluster label table",
	}
	cmd.AddCommand(newLabelsImportCmd())
	cmd.AddCommand(newLabelsShowCmd())
	return cmd
}

func newLabelsImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Replace a label store with the rows of a CSV file",
		Long: `Replace the contents of a label store with a CSV dataset.

The file needs text_tokenize and topic columns; a cluster column is optional.

Example:
  clusterctl labels import output_tokenized.csv --to postgres
  clusterctl labels import output_tokenized.csv --to redis`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := cmd.Flags().GetString("to")
			if err != nil {
				return fmt.Errorf("failed to read 'to' flag: %w", err)
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open label file: %w", err)
			}
			defer file.Close()

			labels, err := csvrepo.ReadLabels(file)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, closeStore, err := bootstrap.OpenLabelStore(target, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			if err := store.ReplaceAll(cmd.Context(), labels); err != nil {
				return err
			}

			table := entity.NewLabelTable(labels)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows (%d clusters) into %s\n", len(labels), table.Len(), target)
			return nil
		},
	}

	cmd.Flags().String("to", config.LabelSourcePostgres, "target store: postgres or redis")

	return cmd
}

func newLabelsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the cluster table from the configured label source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			app := bootstrap.LoadLabelsOnly(cmd.Context(), cfg, log)
			defer app.Close()

			return printJSON(cmd.OutOrStdout(), app.Labels.Clusters())
		},
	}
}
