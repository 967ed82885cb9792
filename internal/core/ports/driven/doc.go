// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - DocumentSource: Reads a document into raw bytes
//   - Normaliser: Reduces one format to an ordered paragraph list
//   - NormaliserRegistry: Selects the appropriate normaliser
//   - PostProcessor / PostProcessorPipeline: Chunking and classification
//   - EmbeddingService: Generates vector embeddings (Gemini, OpenAI, Ollama)
//   - VectorStore: Vector collection create/upsert/read (Qdrant, SQLite, memory)
//   - PointStore: Persists the intermediate point set between phases
//   - ProgressReporter: Observes batch progress without affecting results
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, normaliser, or post-processor package
package driven
