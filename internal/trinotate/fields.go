// Package trinotate splits Trinotate annotation reports into BLAST and gene ontology tables.
package trinotate

import (
	"fmt"
	"strings"

	"github.com/inodb/trinotate-split/internal/tsv"
)

// Default report column names.
const (
	DefaultItemColumn  = "#gene_id"
	DefaultBlastColumn = "sprot_Top_BLASTX_hit"
	DefaultGOColumn    = "gene_ontology_blast"
)

// Derived field names added to each kept record.
const (
	FieldSymbol                  = "Symbol"
	FieldGeneGroup               = "gene_group"
	FieldLongestTranscriptLength = "longest_transcript_length"
	FieldLongestTranscriptID     = "longest_transcript_id"
)

// NoTerm marks a gene ontology entry without a term.
const NoTerm = "."

// Columns names the report columns the splitter reads.
type Columns struct {
	Item       string
	Blast      string
	GO         string
	Transcript string
}

// DefaultColumns returns the standard Trinotate column names.
// Transcript is resolved from the report header by Resolve.
func DefaultColumns() Columns {
	return Columns{
		Item:  DefaultItemColumn,
		Blast: DefaultBlastColumn,
		GO:    DefaultGOColumn,
	}
}

// Resolve sets the transcript column to the header's second column and checks
// that every configured column is present.
func (c Columns) Resolve(h *tsv.Header) (Columns, error) {
	names := h.Names()
	if len(names) < 2 {
		return c, &ColumnError{Column: "transcript id (second column)", Header: names}
	}
	c.Transcript = names[1]

	for _, col := range []string{c.Item, c.Blast, c.GO} {
		if !h.Has(col) {
			return c, &ColumnError{Column: col, Header: names}
		}
	}
	return c, nil
}

// ColumnError reports a required column missing from a header.
type ColumnError struct {
	Column string
	Header []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("required column %q not found in header (%d columns)", e.Column, len(e.Header))
}

// GeneGroup returns the item id truncated to its first two underscore-delimited tokens.
func GeneGroup(itemID string) string {
	parts := strings.SplitN(itemID, "_", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, "_")
}

// Symbol returns the best BLAST hit identifier, the text before the first '^'.
func Symbol(blastHit string) string {
	sym, _, _ := strings.Cut(blastHit, "^")
	return sym
}

// GOTerms splits a backtick-delimited gene ontology field into its terms.
// Each entry contributes its first '^' token; entries whose term is NoTerm are skipped.
func GOTerms(field string) []string {
	var terms []string
	for _, entry := range strings.Split(field, "`") {
		term, _, _ := strings.Cut(entry, "^")
		if term == NoTerm {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}
