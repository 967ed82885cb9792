package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

var inspectAll bool

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the collection's vector size, distance and point count",
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectAll, "all", false, "also list every collection in the backend")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateVectorStore(); err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openVectorStore(ctx, &cfg.Vector)
	if err != nil {
		return err
	}
	defer closeStore(cmd, store)

	names, err := store.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	if inspectAll {
		cmd.Printf("Collections (%s):\n", cfg.Vector.Backend)
		for _, name := range names {
			cmd.Printf("  %s\n", name)
		}
		cmd.Println()
	}

	name := cfg.Vector.Collection
	if !slices.Contains(names, name) {
		available := "none"
		if len(names) > 0 {
			available = strings.Join(names, ", ")
		}
		return fmt.Errorf("%w: collection %q (available: %s)", domain.ErrNotFound, name, available)
	}

	info, err := store.GetCollection(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get collection: %w", err)
	}

	cmd.Printf("Collection %s\n", info.Name)
	cmd.Printf("  Backend:     %s\n", cfg.Vector.Backend)
	cmd.Printf("  Vector size: %d\n", info.VectorSize)
	cmd.Printf("  Distance:    %s\n", info.Distance)
	cmd.Printf("  Points:      %d\n", info.PointCount)
	return nil
}
