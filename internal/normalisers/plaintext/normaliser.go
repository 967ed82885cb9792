// Package plaintext provides the fallback Normaliser for text documents.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/normalisers/textutil"
)

var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser reads any text-like MIME type as plain paragraphs.
type Normaliser struct{}

// New creates the fallback normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/yaml",
		"text/toml",
		"application/json",
		"application/xml",
	}
}

// Priority is the fallback band, below every format-specific normaliser.
func (n *Normaliser) Priority() int {
	return 5
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normalise splits the text into blank-line separated paragraphs. A leading
// byte order mark is dropped. Content with NUL bytes or invalid UTF-8 is
// rejected as binary rather than embedded as noise.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := bytes.TrimPrefix(raw.Content, utf8BOM)
	if !utf8.Valid(content) || bytes.IndexByte(content, 0) >= 0 {
		return nil, fmt.Errorf("%w: %s is not UTF-8 text", domain.ErrInvalidInput, raw.URI)
	}

	return &driven.NormaliseResult{
		Document:   textutil.NewDocument(raw, textutil.TitleFromMetadataOrURI(raw), "text"),
		Paragraphs: textutil.Paragraphs(string(content)),
	}, nil
}
