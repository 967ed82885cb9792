package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
)

// fakeChanges returns a watchFile replacement that delivers n signals then closes.
func fakeChanges(n int, gotDebounce *time.Duration) func(context.Context, string, time.Duration) (<-chan time.Time, error) {
	return func(_ context.Context, _ string, debounce time.Duration) (<-chan time.Time, error) {
		*gotDebounce = debounce
		ch := make(chan time.Time, n)
		for i := 0; i < n; i++ {
			ch <- time.Now()
		}
		close(ch)
		return ch, nil
	}
}

func TestWatchCmd_RunsOnStartAndOnEachChange(t *testing.T) {
	tc := setupCLI(t, geminiEnv)
	doc := writeDocument(t, tc.dir)
	var debounce time.Duration
	watchFile = fakeChanges(2, &debounce)

	output, err := execute(t, "watch", doc, "--convert-only", "--debounce", "250ms")
	require.NoError(t, err)

	assert.Len(t, tc.converter.requests, 3)
	assert.Empty(t, tc.uploader.requests)
	assert.Equal(t, 250*time.Millisecond, debounce)
	assert.Contains(t, output, "Watching")
}

func TestWatchCmd_FullPipeline(t *testing.T) {
	tc := setupCLI(t, map[string]string{"GOOGLE_API_KEY": "k", "QDRANT_URL": "http://localhost:6333"})
	doc := writeDocument(t, tc.dir)
	var debounce time.Duration
	watchFile = fakeChanges(1, &debounce)

	_, err := execute(t, "watch", doc)
	require.NoError(t, err)

	assert.Len(t, tc.converter.requests, 2)
	assert.Len(t, tc.uploader.requests, 2)
}

func TestWatchCmd_FailedRunKeepsWatching(t *testing.T) {
	tc := setupCLI(t, geminiEnv)
	doc := writeDocument(t, tc.dir)
	tc.converter.err = domain.ErrEmbeddingFailed
	var debounce time.Duration
	watchFile = fakeChanges(1, &debounce)

	_, err := execute(t, "watch", doc, "--convert-only")

	assert.NoError(t, err)
	assert.Len(t, tc.converter.requests, 2)
}
