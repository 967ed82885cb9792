// Package cli implements the sercha-ingest command line with cobra.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	configPath     string
	verbose        bool
	backendFlag    string
	collectionFlag string
)

var rootCmd = &cobra.Command{
	Use:   "sercha-ingest",
	Short: "Chunk, embed and index documents into a vector collection",
	Long: `sercha-ingest converts a document into overlapping text chunks, embeds
each chunk and loads the resulting points into a vector collection.

The pipeline runs in two phases that can also be run separately:
  convert  document -> points file (chunk, classify, embed)
  upload   points file -> collection (ensure, upsert, verify)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.sercha-ingest/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "vector backend: qdrant, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&collectionFlag, "collection", "", "target collection name")
}

// Execute runs the root command. The context is cancelled on interrupt by the caller.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
