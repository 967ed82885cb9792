package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driving"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [points-file]",
	Short: "Load a points file into the vector collection",
	Long: `Creates the collection if it does not exist, upserts the points in
batches and verifies the collection's point count afterwards.

An existing collection keeps its vector size and distance; points with a
different vector size are rejected before anything is written. Uploading
the same file twice leaves the point count unchanged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateVectorStore(); err != nil {
		return err
	}

	path := cfg.PointsFile
	if len(args) > 0 {
		path = args[0]
	}
	if err := requireFile("points file", path); err != nil {
		return err
	}

	_, err = uploadPoints(cmd, &cfg, path)
	return err
}

// uploadPoints builds the uploader, runs it and prints the summary.
func uploadPoints(cmd *cobra.Command, cfg *domain.RunConfig, path string) (*driving.UploadResult, error) {
	ctx := cmd.Context()

	uploader, done, err := newUploader(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	defer done()

	cmd.Printf("Uploading %s to %s (%s)...\n", path, cfg.Vector.Collection, cfg.Vector.Backend)
	result, err := uploader.Upload(ctx, driving.UploadRequest{
		PointsPath: path,
		Collection: cfg.Vector.Collection,
	})
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	printUploadSummary(cmd, result)
	return result, nil
}

func printUploadSummary(cmd *cobra.Command, r *driving.UploadResult) {
	if r.Points == 0 {
		cmd.Printf("No points to upload; %s left unchanged\n", r.Collection)
		return
	}

	action := "Updated"
	if r.Created {
		action = "Created"
	}
	cmd.Printf("%s collection %s\n", action, r.Collection)
	cmd.Printf("  Points:     %d in %d batches\n", r.Points, r.Batches)
	cmd.Printf("  Dimensions: %d\n", r.Dimensions)
	cmd.Printf("  Collection: %d points\n", r.ReportedCount)
	cmd.Printf("  Elapsed:    %s\n", r.Elapsed.Round(time.Millisecond))
	if !r.Verified {
		cmd.Printf("Warning: collection reports %d points, uploaded %d\n", r.ReportedCount, r.Points)
	}
}
