package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/pointfile"
	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/progress/console"
	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/sercha-ingest/internal/adapters/driven/vectorstore"
	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-ingest/internal/core/services"
	"github.com/custodia-labs/sercha-ingest/internal/normalisers"
	"github.com/custodia-labs/sercha-ingest/internal/postprocessors"
)

// Service constructors. Tests replace these with fakes.
var (
	newConverter    = buildConverter
	newUploader     = buildUploader
	openVectorStore = vectorstore.CreateAndValidate
	lookupEnv       = os.LookupEnv
)

// openConfigStore opens the file named by --config, or the default file.
func openConfigStore() (*file.ConfigStore, error) {
	store, err := file.NewConfigStore(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return store, nil
}

// loadRunConfig resolves defaults, the config file and the environment,
// then applies the global flags on top.
func loadRunConfig() (domain.RunConfig, error) {
	store, err := openConfigStore()
	if err != nil {
		return domain.RunConfig{}, err
	}

	cfg, err := file.LoadRunConfig(store, lookupEnv)
	if err != nil {
		return domain.RunConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	if backendFlag != "" {
		cfg.Vector.Backend = domain.VectorBackend(backendFlag)
	}
	if collectionFlag != "" {
		cfg.Vector.Collection = collectionFlag
	}
	return cfg, nil
}

// requireFile reports a missing input before any service is created.
func requireFile(kind, path string) error {
	info, err := os.Stat(filesystem.ResolvePath(path))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, path)
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", kind, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s %s is a directory", domain.ErrInvalidInput, kind, path)
	}
	return nil
}

// buildConverter wires the chunk-embed phase. The embedding provider is
// only contacted once there are chunks to embed.
func buildConverter(ctx context.Context, cfg *domain.RunConfig, progress io.Writer) (driving.Converter, func(), error) {
	embedding, err := ai.CreateEmbeddingService(ctx, &cfg.Embedding)
	if err != nil {
		return nil, nil, err
	}

	pipeline, err := postprocessors.NewIngestPipeline(postprocessors.NewDefaultRegistry(), cfg.Chunking)
	if err != nil {
		embedding.Close()
		return nil, nil, err
	}

	embedder := services.NewBatchEmbedder(embedding,
		services.WithEmbedBatchSize(cfg.Embedding.BatchSize),
		services.WithRequestsPerSecond(cfg.Embedding.RequestsPerSecond),
		services.WithEmbedProgress(console.New(progress)),
	)

	svc := services.NewConvertService(
		filesystem.New(),
		normalisers.NewDefaultRegistry(),
		pipeline,
		embedder,
		pointfile.NewStore(),
	)
	return svc, func() { embedding.Close() }, nil
}

// buildUploader wires the index-sync phase against the configured backend.
// The store is only contacted once there are points to upload.
func buildUploader(_ context.Context, cfg *domain.RunConfig, progress io.Writer) (driving.Uploader, func(), error) {
	store, err := vectorstore.Create(&cfg.Vector)
	if err != nil {
		return nil, nil, err
	}

	sync := services.NewIndexSynchronizer(store,
		services.WithUpsertBatchSize(cfg.Vector.UpsertBatchSize),
		services.WithSyncProgress(console.New(progress)),
	)
	return services.NewUploadService(pointfile.NewStore(), sync), func() { store.Close() }, nil
}

// closeStore is used where a command holds a store directly.
func closeStore(cmd *cobra.Command, store driven.VectorStore) {
	if err := store.Close(); err != nil {
		cmd.PrintErrf("warning: closing vector store: %v\n", err)
	}
}
