package driven

import "context"

// EmbeddingService turns text into fixed-length vectors. Implementations
// are Gemini, OpenAI-compatible endpoints and Ollama.
type EmbeddingService interface {
	// EmbedBatch makes one provider call for all of texts. The result has
	// one vector per text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector length the model is expected to produce.
	// The batch embedder trusts the first real vector over this value.
	Dimensions() int

	ModelName() string

	// Ping checks credentials and reachability without embedding anything
	// where the provider allows it.
	Ping(ctx context.Context) error

	Close() error
}
