// Package classifier assigns a coarse category, title and tags to a document.
package classifier

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/logger"
)

// Rule maps a predicate over lowercased text to a category and its tags.
type Rule struct {
	Match    func(lower string) bool
	Category domain.Category
	Tags     []string
}

// containsAny returns a predicate that matches if any keyword is present.
func containsAny(keywords ...string) func(string) bool {
	return func(lower string) bool {
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}
}

// DefaultRules is evaluated in order; the first match wins.
var DefaultRules = []Rule{
	{
		Match: func(lower string) bool {
			return strings.Contains(lower, "step") ||
				(strings.Contains(lower, "situation") && strings.Contains(lower, "task"))
		},
		Category: domain.CategorySTEP,
		Tags:     []string{"step", "adaptability", "change_management"},
	},
	{
		Match:    containsAny("4rs", "4r"),
		Category: domain.Category4Rs,
		Tags:     []string{"4rs", "emotional_intelligence", "relationships"},
	},
	{
		Match:    containsAny("crisis", "urgent"),
		Category: domain.CategoryCrisis,
		Tags:     []string{"crisis", "conflict_resolution", "stress_management"},
	},
	{
		Match:    containsAny("redirect"),
		Category: domain.CategoryRedirect,
		Tags:     []string{"redirection", "goal_setting", "focus"},
	},
	{
		Match:    containsAny("guideline", "rule"),
		Category: domain.CategoryGuidelines,
		Tags:     []string{"guidelines", "best_practices", "standards"},
	},
}

var fallbackTags = []string{"coaching", "workplace", "communication"}

// Processor classifies the first chunk and stores the result on the document.
// It implements the PostProcessor interface and passes chunks through unchanged.
type Processor struct {
	rules []Rule
}

// Option configures the classifier processor.
type Option func(*Processor)

// WithRules replaces the rule table.
func WithRules(rules ...Rule) Option {
	return func(p *Processor) {
		p.rules = rules
	}
}

// New creates a new classifier processor.
func New(opts ...Option) *Processor {
	p := &Processor{rules: DefaultRules}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "classifier"
}

// Process sets doc.Classification from the first chunk, or from empty text
// when there are no chunks.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	text := ""
	if len(chunks) > 0 {
		text = chunks[0].Content
	}

	meta := p.Classify(text)
	doc.Classification = &meta
	logger.Debug("classifier: %q -> %s", meta.Title, meta.Category)
	return chunks, nil
}

// Classify derives document metadata from text.
func (p *Processor) Classify(text string) domain.DocumentMetadata {
	lower := strings.ToLower(text)

	meta := domain.DocumentMetadata{
		Category: domain.CategoryGeneral,
		Title:    Title(text),
		Tags:     append([]string(nil), fallbackTags...),
	}
	for _, rule := range p.rules {
		if rule.Match(lower) {
			meta.Category = rule.Category
			meta.Tags = append([]string(nil), rule.Tags...)
			break
		}
	}
	return meta
}

// Title returns the first line whose trimmed length exceeds
// domain.MinTitleLineLength runes, truncated to domain.MaxTitleLength runes.
func Title(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) > domain.MinTitleLineLength {
			return truncate(line, domain.MaxTitleLength)
		}
	}
	return domain.FallbackTitle
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
