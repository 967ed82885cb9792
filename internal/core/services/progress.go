package services

import "github.com/custodia-labs/sercha-ingest/internal/core/ports/driven"

// nopProgress discards progress updates.
type nopProgress struct{}

func (nopProgress) Start(string, int) {}
func (nopProgress) Update(int)        {}
func (nopProgress) Finish()           {}

// orNop returns r, or a reporter that discards updates when r is nil.
func orNop(r driven.ProgressReporter) driven.ProgressReporter {
	if r == nil {
		return nopProgress{}
	}
	return r
}
