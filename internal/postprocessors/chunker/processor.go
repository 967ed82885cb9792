// Package chunker provides a recursive, separator-aware text chunking processor.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// DefaultSeparators are tried coarsest first: paragraph, line, sentence,
// word, and finally the empty separator which cuts between runes.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Processor splits document content into overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the maximum chunk size in runes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the maximum overlap between adjacent chunks in runes.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator priority list.
// Without a trailing "" separator, an atomic unit longer than the chunk
// size is emitted whole.
func WithSeparators(separators ...string) Option {
	return func(p *Processor) {
		if len(separators) > 0 {
			p.separators = append([]string(nil), separators...)
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	texts := p.Split(doc.Content)
	if len(texts) == 0 {
		return nil, nil
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:         domain.ChunkID(i),
			DocumentID: doc.ID,
			Index:      i + 1,
			Content:    text,
			Metadata:   make(map[string]any),
		}
	}

	logger.Debug("chunker: %d chunks (size %d, overlap %d)", len(chunks), p.chunkSize, p.overlap)
	return chunks, nil
}

// Split returns the chunk texts for content in document order.
// Empty or whitespace-only content yields no chunks.
func (p *Processor) Split(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return p.split(content, p.separators)
}

// split picks the coarsest separator present in text, merges the pieces that
// fit and recurses into the ones that don't with the finer separators.
func (p *Processor) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var finer []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			finer = separators[i+1:]
			break
		}
	}

	var result, fitting []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if runeLen(piece) <= p.chunkSize {
			fitting = append(fitting, piece)
			continue
		}

		if len(fitting) > 0 {
			result = append(result, p.merge(fitting)...)
			fitting = nil
		}

		if len(finer) == 0 {
			if trimmed := strings.TrimSpace(piece); trimmed != "" {
				logger.Warn("chunker: atomic unit of %d runes exceeds chunk size %d", runeLen(trimmed), p.chunkSize)
				result = append(result, trimmed)
			}
			continue
		}
		result = append(result, p.split(piece, finer)...)
	}

	if len(fitting) > 0 {
		result = append(result, p.merge(fitting)...)
	}
	return result
}

// merge greedily packs pieces into chunks of at most chunkSize runes.
// When a chunk is emitted, trailing pieces totalling at most overlap runes
// are carried into the next chunk.
func (p *Processor) merge(pieces []string) []string {
	var chunks, current []string
	total := 0

	for _, piece := range pieces {
		n := runeLen(piece)

		if total+n > p.chunkSize && len(current) > 0 {
			if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for len(current) > 0 && (total > p.overlap || total+n > p.chunkSize) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}

		current = append(current, piece)
		total += n
	}

	if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitKeepingSeparator splits text after each separator occurrence so the
// pieces concatenate back to text. The empty separator splits into runes.
func splitKeepingSeparator(text, separator string) []string {
	if separator == "" {
		pieces := make([]string, 0, len(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	var pieces []string
	for _, piece := range strings.SplitAfter(text, separator) {
		if piece != "" {
			pieces = append(pieces, piece)
		}
	}
	return pieces
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
