package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// watchFile is replaced in tests.
var watchFile = filesystem.Watch

var (
	watchOutput      string
	watchDebounce    time.Duration
	watchConvertOnly bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <document>",
	Short: "Re-run the pipeline whenever a document changes",
	Long: `Runs the pipeline once, then again each time the document is saved.
Rapid successive saves are collapsed into a single run. A failed run is
logged and watching continues. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "points file (default paths.points)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", filesystem.DefaultDebounce, "quiet period before re-running")
	watchCmd.Flags().BoolVar(&watchConvertOnly, "convert-only", false, "only rewrite the points file, skip upload")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	document := args[0]

	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if watchConvertOnly {
		err = validateConvert(&cfg)
	} else {
		err = validateRun(&cfg)
	}
	if err != nil {
		return err
	}
	if err := requireFile("document", document); err != nil {
		return err
	}

	output := outputPath(&cfg, watchOutput)
	once := func() {
		var err error
		if watchConvertOnly {
			_, err = convertDocument(cmd, &cfg, document, output)
		} else {
			err = runPipeline(cmd, &cfg, document, output)
		}
		if err != nil {
			logger.Error("%v", err)
		}
	}

	logger.SetTimestamps(true)
	defer logger.SetTimestamps(false)

	changes, err := watchFile(cmd.Context(), document, watchDebounce)
	if err != nil {
		return err
	}

	once()
	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", document)

	for range changes {
		if err := requireFile("document", document); err != nil {
			logger.Warn("%v", err)
			continue
		}
		cmd.Printf("\n%s changed, re-running\n", document)
		once()
	}
	return nil
}
