package html

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/sercha-ingest/internal/core/domain"
	"github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ingest/internal/normalisers/textutil"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// blockSelector lists the elements that each form one paragraph.
const blockSelector = "p, div, section, article, h1, h2, h3, h4, h5, h6, li, blockquote, pre, td, th, dt, dd, figcaption, caption"

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise returns the text of each innermost block element in document
// order. Pages without block markup yield the whole body text as one
// paragraph.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", domain.ErrInvalidInput, err)
	}

	title := collapseSpaces(doc.Find("title").First().Text())
	if title == "" {
		title = textutil.TitleFromURI(raw.URI)
	}

	return &driven.NormaliseResult{
		Document:   textutil.NewDocument(raw, title, "html"),
		Paragraphs: extractParagraphs(doc),
	}, nil
}

// lineBreak stands in for <br> so source formatting newlines can be folded
// without losing explicit breaks.
const lineBreak = "\u2028"

var (
	whitespace  = regexp.MustCompile(`\s+`)
	spaceAround = regexp.MustCompile(` ?\x{2028} ?`)
)

// collapseSpaces folds all whitespace runs to a single space and turns
// explicit line breaks into newlines.
func collapseSpaces(s string) string {
	s = whitespace.ReplaceAllString(s, " ")
	s = spaceAround.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// extractParagraphs collects readable text from the document body.
func extractParagraphs(doc *goquery.Document) []string {
	doc.Find("script, style, noscript, svg, template, head").Remove()
	doc.Find("br").ReplaceWithHtml(lineBreak)

	body := doc.Find("body")
	var paragraphs []string

	body.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Outer blocks are represented by their inner ones.
		if s.Find(blockSelector).Length() > 0 {
			return
		}

		var text string
		if goquery.NodeName(s) == "pre" {
			text = strings.TrimSpace(strings.ReplaceAll(s.Text(), lineBreak, "\n"))
		} else {
			text = collapseSpaces(s.Text())
		}
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) > 0 {
		return paragraphs
	}

	text := collapseSpaces(body.Text())
	if text == "" {
		return nil
	}
	return []string{text}
}
