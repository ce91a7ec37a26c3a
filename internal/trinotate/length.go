package trinotate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/inodb/trinotate-split/internal/tsv"
)

// LengthRecord is one row of a length file.
type LengthRecord struct {
	ItemID       string
	TranscriptID string
	GeneGroup    string
	LengthText   string // as written in the file
	Length       float64
}

// LengthIndex maps each gene group to its longest transcript.
// It is immutable once built; the zero value is an empty index.
type LengthIndex struct {
	groups map[string]*LengthRecord
}

// Lookup returns the longest transcript of a gene group.
func (idx *LengthIndex) Lookup(geneGroup string) (*LengthRecord, bool) {
	if idx == nil {
		return nil, false
	}
	rec, ok := idx.groups[geneGroup]
	return rec, ok
}

// Len returns the number of gene groups.
func (idx *LengthIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.groups)
}

// Empty reports whether the index has no groups, which disables longest-transcript filtering.
func (idx *LengthIndex) Empty() bool {
	return idx.Len() == 0
}

// RecordSource is a stream of header-keyed records, such as a *tsv.Reader.
type RecordSource interface {
	Header() *tsv.Header
	// Next returns nil, nil at end of input.
	Next() (*tsv.Record, error)
	LineNumber() int
}

// LoadLengthIndex reads a length file and builds its index.
// An empty path yields an empty index.
func LoadLengthIndex(path, transcriptColumn string) (*LengthIndex, error) {
	if path == "" {
		return &LengthIndex{}, nil
	}

	r, err := tsv.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open length file: %w", err)
	}
	defer r.Close()

	return BuildLengthIndex(r, transcriptColumn)
}

// BuildLengthIndex reads length rows and keeps the longest row per gene group.
//
// The first column is the item id and the second the length. The transcript id
// is read from transcriptColumn when the file has it, otherwise from the item id.
// A repeated item id replaces the earlier row. Among rows of equal maximal
// length the first one in file order is kept.
func BuildLengthIndex(src RecordSource, transcriptColumn string) (*LengthIndex, error) {
	names := src.Header().Names()
	if len(names) < 2 {
		return nil, &ColumnError{Column: "length (second column)", Header: names}
	}
	itemCol, lengthCol := names[0], names[1]
	idCol := itemCol
	if transcriptColumn != "" && src.Header().Has(transcriptColumn) {
		idCol = transcriptColumn
	}

	byItem := make(map[string]*LengthRecord)
	var order []string

	for {
		row, err := src.Next()
		if err != nil {
			return nil, fmt.Errorf("read length file: %w", err)
		}
		if row == nil {
			break
		}

		text := row.Value(lengthCol)
		length, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, &tsv.ParseError{
				Line:    src.LineNumber(),
				Message: fmt.Sprintf("invalid length: %q", text),
			}
		}

		item := row.Value(itemCol)
		if _, ok := byItem[item]; !ok {
			order = append(order, item)
		}
		byItem[item] = &LengthRecord{
			ItemID:       item,
			TranscriptID: row.Value(idCol),
			GeneGroup:    GeneGroup(item),
			LengthText:   text,
			Length:       length,
		}
	}

	idx := &LengthIndex{groups: make(map[string]*LengthRecord)}
	for _, item := range order {
		rec := byItem[item]
		if cur, ok := idx.groups[rec.GeneGroup]; !ok || rec.Length > cur.Length {
			idx.groups[rec.GeneGroup] = rec
		}
	}
	return idx, nil
}
