package trinotate

import (
	"go.uber.org/zap"

	"github.com/inodb/trinotate-split/internal/tsv"
)

// Annotated is a kept report record with its derived fields.
type Annotated struct {
	Record       *tsv.Record
	ItemID       string
	TranscriptID string
	GeneGroup    string
	Symbol       string
	GOField      string

	// Longest is the longest transcript of the record's gene group,
	// nil when there is no length index or the group is not indexed.
	Longest *LengthRecord
}

// LongestTranscriptLength returns the longest transcript length as written
// in the length file, or "" if unknown.
func (a *Annotated) LongestTranscriptLength() string {
	if a.Longest == nil {
		return ""
	}
	return a.Longest.LengthText
}

// LongestTranscriptID returns the longest transcript id, or "" if unknown.
func (a *Annotated) LongestTranscriptID() string {
	if a.Longest == nil {
		return ""
	}
	return a.Longest.TranscriptID
}

// GOTerms returns the record's gene ontology terms.
func (a *Annotated) GOTerms() []string {
	return GOTerms(a.GOField)
}

// Transformer deduplicates report records by transcript id and annotates them.
type Transformer struct {
	cols   Columns
	index  *LengthIndex
	seen   map[string]struct{}
	stats  Summary
	logger *zap.Logger
}

// NewTransformer creates a transformer. cols must already be resolved
// against the report header; index may be empty or nil.
func NewTransformer(cols Columns, index *LengthIndex) *Transformer {
	if index == nil {
		index = &LengthIndex{}
	}
	return &Transformer{
		cols:   cols,
		index:  index,
		seen:   make(map[string]struct{}),
		stats:  Summary{GeneGroups: index.Len()},
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (t *Transformer) SetLogger(l *zap.Logger) {
	t.logger = l
}

// Transform annotates one record. It returns nil for a transcript id seen
// before. The bool reports whether the record should be written: always
// without a length index, otherwise only for the longest transcript of its group.
func (t *Transformer) Transform(rec *tsv.Record) (*Annotated, bool) {
	t.stats.Records++

	transcriptID := rec.Value(t.cols.Transcript)
	if _, dup := t.seen[transcriptID]; dup {
		t.stats.Duplicates++
		t.logger.Debug("skipping duplicate transcript", zap.String("transcript_id", transcriptID))
		return nil, false
	}
	t.seen[transcriptID] = struct{}{}

	itemID := rec.Value(t.cols.Item)
	ann := &Annotated{
		Record:       rec,
		ItemID:       itemID,
		TranscriptID: transcriptID,
		GeneGroup:    GeneGroup(itemID),
		Symbol:       Symbol(rec.Value(t.cols.Blast)),
		GOField:      rec.Value(t.cols.GO),
	}
	if longest, ok := t.index.Lookup(ann.GeneGroup); ok {
		ann.Longest = longest
	}

	rec.Set(FieldGeneGroup, ann.GeneGroup)
	rec.Set(FieldSymbol, ann.Symbol)
	rec.Set(FieldLongestTranscriptLength, ann.LongestTranscriptLength())
	rec.Set(FieldLongestTranscriptID, ann.LongestTranscriptID())

	eligible := t.index.Empty() || (ann.Longest != nil && ann.Longest.TranscriptID == transcriptID)
	if !eligible {
		t.stats.Ineligible++
	}
	return ann, eligible
}

// Summary returns the counts accumulated so far.
func (t *Transformer) Summary() Summary {
	return t.stats
}
