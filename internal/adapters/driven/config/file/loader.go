package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

// Config keys, shared by the TOML file and `config set`.
const (
	KeyEmbeddingProvider = "embedding.provider"
	KeyEmbeddingModel    = "embedding.model"
	KeyEmbeddingBaseURL  = "embedding.base_url"
	KeyEmbeddingAPIKey   = "embedding.api_key"
	KeyEmbedBatchSize    = "embedding.batch_size"
	KeyEmbedRPS          = "embedding.requests_per_second"
	KeyVectorBackend     = "vector.backend"
	KeyVectorURL         = "vector.url"
	KeyVectorAPIKey      = "vector.api_key"
	KeyVectorPath        = "vector.path"
	KeyVectorCollection  = "vector.collection"
	KeyUpsertBatchSize   = "vector.upsert_batch_size"
	KeyChunkSize         = "chunking.size"
	KeyChunkOverlap      = "chunking.overlap"
	KeyChunkSeparators   = "chunking.separators"
	KeyPointsFile        = "paths.points"
)

const defaultDataDirName = "data"

// envBindings lists, per key, the environment variables consulted in order.
// The first variable that is set wins.
var envBindings = map[string][]string{
	KeyEmbeddingProvider: {"INGEST_EMBEDDING_PROVIDER"},
	KeyEmbeddingModel:    {"INGEST_EMBEDDING_MODEL"},
	KeyEmbeddingBaseURL:  {"INGEST_EMBEDDING_BASE_URL"},
	KeyEmbeddingAPIKey:   {"INGEST_EMBEDDING_API_KEY"},
	KeyEmbedBatchSize:    {"INGEST_EMBED_BATCH_SIZE"},
	KeyEmbedRPS:          {"INGEST_EMBED_RPS"},
	KeyVectorBackend:     {"INGEST_VECTOR_BACKEND"},
	KeyVectorURL:         {"INGEST_VECTOR_URL", "QDRANT_URL"},
	KeyVectorAPIKey:      {"INGEST_VECTOR_API_KEY", "QDRANT_API_KEY"},
	KeyVectorPath:        {"INGEST_VECTOR_PATH"},
	KeyVectorCollection:  {"INGEST_COLLECTION"},
	KeyUpsertBatchSize:   {"INGEST_UPSERT_BATCH_SIZE"},
	KeyChunkSize:         {"INGEST_CHUNK_SIZE"},
	KeyChunkOverlap:      {"INGEST_CHUNK_OVERLAP"},
	KeyPointsFile:        {"INGEST_POINTS_FILE"},
}

// providerKeyEnv is the provider-specific fallback for embedding.api_key.
var providerKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderGemini: "GOOGLE_API_KEY",
	domain.AIProviderOpenAI: "OPENAI_API_KEY",
}

// intKeys and floatKeys hold numeric keys; every other key except
// KeyChunkSeparators is a string.
var (
	intKeys = map[string]bool{
		KeyEmbedBatchSize:  true,
		KeyUpsertBatchSize: true,
		KeyChunkSize:       true,
		KeyChunkOverlap:    true,
	}
	floatKeys = map[string]bool{
		KeyEmbedRPS: true,
	}
)

// KnownKeys returns every supported config key, sorted.
func KnownKeys() []string {
	keys := make([]string, 0, len(envBindings)+1)
	for k := range envBindings {
		keys = append(keys, k)
	}
	keys = append(keys, KeyChunkSeparators)
	sort.Strings(keys)
	return keys
}

// ParseValue converts command-line arguments to the value stored for key.
// Only KeyChunkSeparators takes several arguments; each is Go-unquoted so
// "\n\n" can be typed on a shell.
func ParseValue(key string, args []string) (any, error) {
	if _, ok := envBindings[key]; !ok && key != KeyChunkSeparators {
		return nil, fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}
	if key == KeyChunkSeparators {
		seps := make([]string, len(args))
		for i, a := range args {
			s, err := strconv.Unquote(`"` + a + `"`)
			if err != nil {
				return nil, fmt.Errorf("%w: separator %q: %v", domain.ErrInvalidInput, a, err)
			}
			seps[i] = s
		}
		return seps, nil
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: %s takes exactly one value", domain.ErrInvalidInput, key)
	}

	raw := strings.TrimSpace(args[0])
	switch {
	case intKeys[key]:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidInput, key, raw)
		}
		return n, nil
	case floatKeys[key]:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("%w: %s must be a non-negative number, got %q", domain.ErrInvalidInput, key, raw)
		}
		return f, nil
	default:
		return args[0], nil
	}
}

// EnvLookup matches the signature of os.LookupEnv.
type EnvLookup func(key string) (string, bool)

// EnvVars returns the environment variables bound to key.
func EnvVars(key string) []string {
	return envBindings[key]
}

// LoadRunConfig builds the run configuration from built-in defaults, then
// the config store, then the environment. A nil store or lookup is skipped.
// CLI flags are applied by the caller afterwards.
func LoadRunConfig(store driven.ConfigStore, lookup EnvLookup) (domain.RunConfig, error) {
	cfg := domain.DefaultRunConfig()
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}

	l := &layered{store: store, lookup: lookup}

	cfg.Embedding.Provider = domain.AIProvider(l.str(KeyEmbeddingProvider, string(cfg.Embedding.Provider)))
	cfg.Embedding.Model = l.str(KeyEmbeddingModel, cfg.Embedding.Model)
	cfg.Embedding.BaseURL = l.str(KeyEmbeddingBaseURL, cfg.Embedding.BaseURL)
	cfg.Embedding.APIKey = l.apiKey(cfg.Embedding.Provider)
	cfg.Embedding.BatchSize = l.integer(KeyEmbedBatchSize, cfg.Embedding.BatchSize)
	cfg.Embedding.RequestsPerSecond = l.float(KeyEmbedRPS, cfg.Embedding.RequestsPerSecond)

	cfg.Vector.Backend = domain.VectorBackend(l.str(KeyVectorBackend, string(cfg.Vector.Backend)))
	cfg.Vector.URL = l.str(KeyVectorURL, cfg.Vector.URL)
	cfg.Vector.APIKey = l.str(KeyVectorAPIKey, cfg.Vector.APIKey)
	cfg.Vector.Path = l.str(KeyVectorPath, cfg.Vector.Path)
	cfg.Vector.Collection = l.str(KeyVectorCollection, cfg.Vector.Collection)
	cfg.Vector.UpsertBatchSize = l.integer(KeyUpsertBatchSize, cfg.Vector.UpsertBatchSize)

	cfg.Chunking.Size = l.integer(KeyChunkSize, cfg.Chunking.Size)
	cfg.Chunking.Overlap = l.integer(KeyChunkOverlap, cfg.Chunking.Overlap)
	if store != nil {
		if _, ok := store.Get(KeyChunkSeparators); ok {
			cfg.Chunking.Separators = store.GetStringSlice(KeyChunkSeparators)
		}
	}

	cfg.PointsFile = l.str(KeyPointsFile, cfg.PointsFile)

	if len(l.errs) > 0 {
		return cfg, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(l.errs, ", "))
	}

	if cfg.Vector.Path == "" {
		if dir, err := DefaultDataDir(); err == nil {
			cfg.Vector.Path = dir
		}
	}
	cfg.Vector.Path = expandHome(cfg.Vector.Path)
	return cfg, nil
}

// DefaultDataDir returns ~/.sercha-ingest/data, the sqlite backend's default location.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName, defaultDataDirName), nil
}

// layered resolves one key against the store and the environment,
// collecting parse errors instead of stopping at the first.
type layered struct {
	store  driven.ConfigStore
	lookup EnvLookup
	errs   []string
}

// env returns the first bound environment variable that is set.
func (l *layered) env(key string) (string, string, bool) {
	for _, name := range envBindings[key] {
		if v, ok := l.lookup(name); ok && v != "" {
			return name, v, true
		}
	}
	return "", "", false
}

func (l *layered) str(key, def string) string {
	val := def
	if l.store != nil {
		if s := l.store.GetString(key); s != "" {
			val = s
		}
	}
	if _, v, ok := l.env(key); ok {
		val = v
	}
	return val
}

func (l *layered) integer(key string, def int) int {
	val := def
	if l.store != nil {
		if raw, ok := l.store.Get(key); ok {
			switch raw.(type) {
			case int64, int:
				val = l.store.GetInt(key)
			default:
				l.errs = append(l.errs, fmt.Sprintf("%s must be an integer", key))
			}
		}
	}
	if name, v, ok := l.env(key); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			l.errs = append(l.errs, fmt.Sprintf("%s=%q is not an integer", name, v))
			return val
		}
		val = n
	}
	return val
}

func (l *layered) float(key string, def float64) float64 {
	val := def
	if l.store != nil {
		if raw, ok := l.store.Get(key); ok {
			switch raw.(type) {
			case float64, int64, int:
				val = l.store.GetFloat(key)
			default:
				l.errs = append(l.errs, fmt.Sprintf("%s must be a number", key))
			}
		}
	}
	if name, v, ok := l.env(key); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || f < 0 {
			l.errs = append(l.errs, fmt.Sprintf("%s=%q is not a non-negative number", name, v))
			return val
		}
		val = f
	}
	return val
}

// apiKey resolves embedding.api_key: INGEST_EMBEDDING_API_KEY beats the file,
// and the provider's own variable is only a fallback when neither is set.
func (l *layered) apiKey(provider domain.AIProvider) string {
	if _, v, ok := l.env(KeyEmbeddingAPIKey); ok {
		return v
	}
	if l.store != nil {
		if s := l.store.GetString(KeyEmbeddingAPIKey); s != "" {
			return s
		}
	}
	if name, ok := providerKeyEnv[provider]; ok {
		if v, ok := l.lookup(name); ok {
			return v
		}
	}
	return ""
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
