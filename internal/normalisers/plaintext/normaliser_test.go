package plaintext

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
)

func TestSupportedMIMETypes(t *testing.T) {
	mimeTypes := New().SupportedMIMETypes()
	assert.Contains(t, mimeTypes, "text/plain")
	assert.Contains(t, mimeTypes, "application/json")
}

func TestPriority(t *testing.T) {
	assert.Equal(t, 5, New().Priority())
}

func TestNormalise_Success(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "/path/to/coaching_notes.txt",
		MIMEType: "text/plain",
		Content:  []byte("Handling a crisis.\n\n  Stay calm and listen.\nAsk questions.  \n\n\n"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	doc := result.Document
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, raw.URI, doc.URI)
	assert.Equal(t, "coaching notes", doc.Title)
	assert.Equal(t, "text/plain", doc.Metadata["mime_type"])
	assert.Equal(t, []string{
		"Handling a crisis.",
		"Stay calm and listen.\nAsk questions.",
	}, result.Paragraphs)
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_EmptyContent(t *testing.T) {
	result, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "/empty.txt"})
	require.NoError(t, err)
	assert.Empty(t, result.Paragraphs)
}

func TestNormalise_InvalidUTF8(t *testing.T) {
	_, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:     "/binary.txt",
		Content: []byte{0xff, 0xfe, 0xfd},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_BinaryContent(t *testing.T) {
	_, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:     "/image.txt",
		Content: []byte("PNG\x00\x00header"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_StripsByteOrderMark(t *testing.T) {
	raw := &domain.RawDocument{
		URI:     "/bom.txt",
		Content: append([]byte{0xEF, 0xBB, 0xBF}, "Step one.\n\nStep two."...),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Step one.", "Step two."}, result.Paragraphs)
	assert.Equal(t, "text", result.Document.Metadata["format"])
}

func TestNormalise_TitleFromMetadata(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "/path/abc123.txt",
		Content:  []byte("text"),
		Metadata: map[string]any{"title": "Quarterly Review"},
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Review", result.Document.Title)
}

func TestNormalise_UnicodeContent(t *testing.T) {
	content := "日本語テキスト\n\nÉmotions et relations 🎯"
	result, err := New().Normalise(context.Background(), &domain.RawDocument{URI: "/u.txt", Content: []byte(content)})
	require.NoError(t, err)
	assert.Equal(t, []string{"日本語テキスト", "Émotions et relations 🎯"}, result.Paragraphs)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func BenchmarkNormalise(b *testing.B) {
	raw := &domain.RawDocument{
		URI:     "/test/document.txt",
		Content: []byte(strings.Repeat("This is a paragraph of text.\n\n", 500)),
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = New().Normalise(ctx, raw)
	}
}
