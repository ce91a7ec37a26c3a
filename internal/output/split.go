// Package output writes the BLAST and gene ontology tables of a split report.
package output

import (
	"io"

	"github.com/inodb/trinotate-split/internal/trinotate"
	"github.com/inodb/trinotate-split/internal/tsv"
)

// BlastColumns returns the BLAST table column order: the item column, Symbol,
// the remaining report columns in report order, then the longest transcript fields.
func BlastColumns(h *tsv.Header, cols trinotate.Columns) []string {
	columns := []string{cols.Item, trinotate.FieldSymbol}
	for _, name := range h.Names() {
		if name != cols.Item {
			columns = append(columns, name)
		}
	}
	return append(columns,
		trinotate.FieldLongestTranscriptLength,
		trinotate.FieldLongestTranscriptID,
	)
}

// SplitWriter writes each kept record as one BLAST row followed by its GO rows.
type SplitWriter struct {
	blast    *tsv.Writer
	goTerms  *tsv.Writer
	goHeader *tsv.Header
}

// NewSplitWriter creates a writer for a report with header h.
// cols must already be resolved against h.
func NewSplitWriter(blastOut, goOut io.Writer, h *tsv.Header, cols trinotate.Columns) *SplitWriter {
	goColumns := []string{cols.Item, cols.GO}
	return &SplitWriter{
		blast:    tsv.NewWriter(blastOut, BlastColumns(h, cols)),
		goTerms:  tsv.NewWriter(goOut, goColumns),
		goHeader: tsv.NewHeader(goColumns),
	}
}

// WriteHeader writes the header line of both tables.
func (sw *SplitWriter) WriteHeader() error {
	if err := sw.blast.WriteHeader(); err != nil {
		return err
	}
	return sw.goTerms.WriteHeader()
}

// Write writes the BLAST row and GO rows of a single record.
func (sw *SplitWriter) Write(a *trinotate.Annotated) error {
	if err := sw.blast.Write(a.Record); err != nil {
		return err
	}
	for _, term := range a.GOTerms() {
		if err := sw.goTerms.Write(tsv.NewRecord(sw.goHeader, []string{a.ItemID, term})); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes both tables.
func (sw *SplitWriter) Flush() error {
	if err := sw.blast.Flush(); err != nil {
		return err
	}
	return sw.goTerms.Flush()
}
