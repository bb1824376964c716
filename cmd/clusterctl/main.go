// Package main provides the clusterctl CLI.
//
// Usage:
//
//	clusterctl [flags] <command> [args]
//
// Commands:
//
//	predict   - Classify a description with the local ensemble or a running service
//	artifacts - Show which vectorizer and model artifacts load
//	labels    - Manage the cluster label table
//
// Configuration is read the same way as the API server: defaults, then
// config.yaml (or --config / CONFIG_PATH), then ENSEMBLE_* variables.
package main

import (
	"fmt"
	"os"

	"github.com/ressKim-io/topic-ensemble/cmd/clusterctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
