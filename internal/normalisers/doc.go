// Package normalisers selects and runs the format-specific normalisers.
// Each normaliser reduces one family of MIME types to an ordered list of
// paragraphs; the Registry picks the highest-priority match for a document.
package normalisers
