package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driving"
)

var convertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert <document>",
	Short: "Chunk, classify and embed a document into a points file",
	Long: `Reads a document (docx, markdown, html or plain text), splits it into
overlapping chunks, classifies it and embeds every chunk. The resulting
points are written to a JSON file that "upload" loads into a collection.

Re-running on the same document overwrites the file with the same point IDs.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "points file (default paths.points)")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if err := validateConvert(&cfg); err != nil {
		return err
	}
	if err := requireFile("document", args[0]); err != nil {
		return err
	}

	_, err = convertDocument(cmd, &cfg, args[0], outputPath(&cfg, convertOutput))
	return err
}

func validateConvert(cfg *domain.RunConfig) error {
	if err := cfg.ValidateChunking(); err != nil {
		return err
	}
	return cfg.ValidateEmbedding()
}

func outputPath(cfg *domain.RunConfig, flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.PointsFile
}

// convertDocument builds the converter, runs it and prints the summary.
func convertDocument(cmd *cobra.Command, cfg *domain.RunConfig, document, output string) (*driving.ConvertResult, error) {
	ctx := cmd.Context()

	converter, done, err := newConverter(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	defer done()

	cmd.Printf("Converting %s...\n", document)
	result, err := converter.Convert(ctx, driving.ConvertRequest{
		DocumentPath: document,
		OutputPath:   output,
	})
	if err != nil {
		return nil, fmt.Errorf("convert failed: %w", err)
	}

	printConvertSummary(cmd, result)
	return result, nil
}

func printConvertSummary(cmd *cobra.Command, r *driving.ConvertResult) {
	if r.Chunks == 0 {
		cmd.Printf("No text found; wrote empty points file %s\n", r.OutputPath)
		return
	}

	cmd.Printf("Wrote %d points to %s\n", r.Chunks, r.OutputPath)
	cmd.Printf("  Characters: %d\n", r.Characters)
	cmd.Printf("  Dimensions: %d\n", r.Dimensions)
	if r.Model != "" {
		cmd.Printf("  Model:      %s\n", r.Model)
	}
	cmd.Printf("  Category:   %s\n", r.Metadata.Category)
	cmd.Printf("  Title:      %s\n", r.Metadata.Title)
	if info, err := os.Stat(r.OutputPath); err == nil {
		cmd.Printf("  File size:  %.2f MB\n", float64(info.Size())/(1024*1024))
	}
	cmd.Printf("  Elapsed:    %s\n", r.Elapsed.Round(time.Millisecond))
}
