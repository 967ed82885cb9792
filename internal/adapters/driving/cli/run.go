package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

var runOutput string

var runCmd = &cobra.Command{
	Use:   "run <document>",
	Short: "Convert a document and upload its points",
	Long: `Runs "convert" followed by "upload" for one document. All configuration
is checked before the document is read, so a missing vector store URL is
reported before any embedding calls are made.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "intermediate points file (default paths.points)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if err := validateRun(&cfg); err != nil {
		return err
	}
	if err := requireFile("document", args[0]); err != nil {
		return err
	}

	return runPipeline(cmd, &cfg, args[0], outputPath(&cfg, runOutput))
}

func validateRun(cfg *domain.RunConfig) error {
	if err := validateConvert(cfg); err != nil {
		return err
	}
	return cfg.ValidateVectorStore()
}

// runPipeline converts document into output and uploads output.
func runPipeline(cmd *cobra.Command, cfg *domain.RunConfig, document, output string) error {
	result, err := convertDocument(cmd, cfg, document, output)
	if err != nil {
		return err
	}
	_, err = uploadPoints(cmd, cfg, result.OutputPath)
	return err
}
