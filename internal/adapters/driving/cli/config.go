package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `Shows the effective configuration (defaults, then the config file, then
environment variables, then flags) or writes a key to the config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>...",
	Short: "Write a key to the config file",
	Long: `Writes a key to the config file. Run "config keys" for the list.

chunking.separators takes one value per separator, in priority order, with
Go escapes, e.g.:
  sercha-ingest config set chunking.separators '\n\n' '\n' ' ' ''`,
	Args: cobra.MinimumNArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List config keys and their environment variables",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, key := range file.KnownKeys() {
			if vars := file.EnvVars(key); len(vars) > 0 {
				cmd.Printf("  %-32s %s\n", key, strings.Join(vars, ", "))
			} else {
				cmd.Printf("  %s\n", key)
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := openConfigStore()
	if err != nil {
		return err
	}
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	cmd.Printf("Config file: %s\n", store.Path())
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", cfg.Embedding.Provider.Description())
	model := cfg.Embedding.Model
	if model == "" {
		model = domain.DefaultEmbeddingModels()[cfg.Embedding.Provider] + " (default)"
	}
	cmd.Printf("  Model: %s\n", model)
	if cfg.Embedding.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", cfg.Embedding.BaseURL)
	}
	if cfg.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", maskAPIKey(cfg.Embedding.APIKey))
	}
	cmd.Printf("  Batch size: %d\n", cfg.Embedding.BatchSize)
	if cfg.Embedding.RequestsPerSecond > 0 {
		cmd.Printf("  Requests per second: %g\n", cfg.Embedding.RequestsPerSecond)
	} else {
		cmd.Printf("  Requests per second: unlimited\n")
	}
	cmd.Println()

	cmd.Println("[Vector]")
	cmd.Printf("  Backend: %s\n", cfg.Vector.Backend)
	switch cfg.Vector.Backend {
	case domain.VectorBackendQdrant:
		url := cfg.Vector.URL
		if url == "" {
			url = "(not set)"
		}
		cmd.Printf("  URL: %s\n", url)
		cmd.Printf("  API Key: %s\n", maskAPIKey(cfg.Vector.APIKey))
	case domain.VectorBackendSQLite:
		cmd.Printf("  Path: %s\n", cfg.Vector.Path)
	}
	cmd.Printf("  Collection: %s\n", cfg.Vector.Collection)
	cmd.Printf("  Upsert batch size: %d\n", cfg.Vector.UpsertBatchSize)
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Size: %d\n", cfg.Chunking.Size)
	cmd.Printf("  Overlap: %d\n", cfg.Chunking.Overlap)
	if len(cfg.Chunking.Separators) > 0 {
		quoted := make([]string, len(cfg.Chunking.Separators))
		for i, s := range cfg.Chunking.Separators {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		cmd.Printf("  Separators: %s\n", strings.Join(quoted, " "))
	}
	cmd.Println()

	cmd.Println("[Paths]")
	cmd.Printf("  Points: %s\n", cfg.PointsFile)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value, err := file.ParseValue(key, args[1:])
	if err != nil {
		return err
	}

	store, err := openConfigStore()
	if err != nil {
		return err
	}
	if err := store.Set(key, value); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	shown := fmt.Sprintf("%v", value)
	if strings.HasSuffix(key, "api_key") {
		shown = maskAPIKey(shown)
	}
	cmd.Printf("Set %s = %s in %s\n", key, shown, store.Path())
	return nil
}

// maskAPIKey masks an API key for display, showing only first and last 4 characters.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
