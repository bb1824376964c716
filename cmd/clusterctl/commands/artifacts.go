package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ressKim-io/topic-ensemble/internal/adapter/artifact"
)

func newArtifactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "artifacts",
		Short: "Show which artifacts load",
		Long: `Load the configured vectorizer and model artifacts and print one line per file.

Exits non-zero when the service could not serve predictions with these artifacts.`,
		Args: cobra.NoArgs,
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

			registry, results := artifact.LoadRegistry(&cfg.Artifacts, log)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ARTIFACT\tKIND\tPROBABILITIES\tSTATUS\tPATH")
			for _, r := range results {
				status := "ok"
				if !r.OK() {
					status = "error: " + r.ErrorMessage()
				}
				kind := r.Kind
				if kind == "" {
					kind = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", r.Artifact, kind, r.Probabilities, status, r.Path)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !registry.Ready() {
				return fmt.Errorf("not ready: vectorizer loaded=%t, models loaded=%d",
					registry.HasVectorizer(), len(registry.Models()))
			}
			return nil
		},
	}
}
