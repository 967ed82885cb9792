// Package html provides a Normaliser for HTML documents.
// Each innermost block element (paragraph, heading, list item, cell) becomes
// one paragraph; scripts, styles and the document head are discarded.
package html
