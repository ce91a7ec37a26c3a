package trinotate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/trinotate-split/internal/tsv"
)

const reportHeader = "#gene_id\ttranscript_id\tsprot_Top_BLASTX_hit\tgene_ontology_blast\n"

// recordingWriter keeps every written annotation.
type recordingWriter struct {
	headers int
	written []*Annotated
	flushed bool
	failOn  string
}

func (w *recordingWriter) WriteHeader() error {
	w.headers++
	return nil
}

func (w *recordingWriter) Write(a *Annotated) error {
	if a.TranscriptID == w.failOn {
		return errors.New("disk full")
	}
	w.written = append(w.written, a)
	return nil
}

func (w *recordingWriter) Flush() error {
	w.flushed = true
	return nil
}

func split(t *testing.T, report string, idx *LengthIndex) (*recordingWriter, Summary) {
	t.Helper()
	r, err := tsv.NewReader(strings.NewReader(report))
	require.NoError(t, err)

	cols, err := DefaultColumns().Resolve(r.Header())
	require.NoError(t, err)

	w := &recordingWriter{}
	summary, err := SplitAll(r, NewTransformer(cols, idx), w)
	require.NoError(t, err)
	return w, summary
}

func transcriptIDs(anns []*Annotated) []string {
	ids := make([]string, len(anns))
	for i, a := range anns {
		ids[i] = a.TranscriptID
	}
	return ids
}

func TestSplitAll_DedupWithoutLengthIndex(t *testing.T) {
	report := reportHeader +
		"G_1_c0\tT1\tHIT1^90%^E:1e-10\tGO:1^x`.^GO:2^y\n" +
		"G_1_c0\tT1\tHIT9^10%\tGO:9^z\n" +
		"G_2_c0\tT2\t.\t.\n"

	w, summary := split(t, report, nil)

	assert.Equal(t, 1, w.headers)
	assert.True(t, w.flushed)
	require.Len(t, w.written, 2)
	assert.Equal(t, []string{"T1", "T2"}, transcriptIDs(w.written))

	first := w.written[0]
	assert.Equal(t, "HIT1", first.Symbol)
	assert.Equal(t, "G_1", first.GeneGroup)
	assert.Nil(t, first.Longest)
	assert.Equal(t, "", first.LongestTranscriptLength())
	assert.Equal(t, "", first.LongestTranscriptID())
	assert.Equal(t, []string{"GO:1"}, first.GOTerms())
	assert.Equal(t, "HIT1", first.Record.Value(FieldSymbol))

	v, ok := first.Record.Get(FieldLongestTranscriptID)
	assert.True(t, ok)
	assert.Equal(t, "", v)

	assert.Equal(t, Summary{Records: 3, Duplicates: 1, BlastRows: 2, GORows: 1}, summary)
}

func TestSplitAll_LongestTranscriptOnly(t *testing.T) {
	idx := &LengthIndex{groups: map[string]*LengthRecord{
		"G_1": {ItemID: "T1b", TranscriptID: "T1b", GeneGroup: "G_1", LengthText: "900", Length: 900},
		"G_2": {ItemID: "T2a", TranscriptID: "T2a", GeneGroup: "G_2", LengthText: "50", Length: 50},
	}}
	report := reportHeader +
		"G_1_c0\tT1a\tA^1\t.\n" +
		"G_1_c0\tT1b\tB^1\t.\n" +
		"G_1_c0\tT1b\tC^1\t.\n" +
		"G_2_c0\tT2a\tD^1\tGO:5^p\n" +
		"G_3_c0\tT3a\tE^1\t.\n"

	w, summary := split(t, report, idx)

	require.Equal(t, []string{"T1b", "T2a"}, transcriptIDs(w.written))
	assert.Equal(t, "B", w.written[0].Symbol)
	assert.Equal(t, "900", w.written[0].LongestTranscriptLength())
	assert.Equal(t, "T1b", w.written[0].LongestTranscriptID())
	assert.Equal(t, "900", w.written[0].Record.Value(FieldLongestTranscriptLength))

	assert.Equal(t, 5, summary.Records)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 2, summary.Ineligible)
	assert.Equal(t, 2, summary.BlastRows)
	assert.Equal(t, 1, summary.GORows)
	assert.Equal(t, 2, summary.GeneGroups)
}

func TestTransform_IneligibleStillAnnotated(t *testing.T) {
	idx := &LengthIndex{groups: map[string]*LengthRecord{
		"G_1": {TranscriptID: "T1b", LengthText: "900", Length: 900},
	}}
	h := tsv.NewHeader([]string{"#gene_id", "transcript_id", "sprot_Top_BLASTX_hit", "gene_ontology_blast"})
	cols, err := DefaultColumns().Resolve(h)
	require.NoError(t, err)

	tr := NewTransformer(cols, idx)
	ann, ok := tr.Transform(tsv.NewRecord(h, []string{"G_1_c0", "T1a", "SYM^x", "."}))
	require.NotNil(t, ann)
	assert.False(t, ok)
	assert.Equal(t, "SYM", ann.Symbol)
	assert.Equal(t, "T1b", ann.LongestTranscriptID())

	// A duplicate of an ineligible transcript is still a duplicate.
	ann, ok = tr.Transform(tsv.NewRecord(h, []string{"G_1_c0", "T1a", "SYM^x", "."}))
	assert.Nil(t, ann)
	assert.False(t, ok)
	assert.Equal(t, 1, tr.Summary().Duplicates)
}

func TestSplitAll_Errors(t *testing.T) {
	r, err := tsv.NewReader(strings.NewReader(reportHeader + "G_1\tT1\tA\t.\nG_2\tT2\n"))
	require.NoError(t, err)
	cols, err := DefaultColumns().Resolve(r.Header())
	require.NoError(t, err)

	_, err = SplitAll(r, NewTransformer(cols, nil), &recordingWriter{})
	var pe *tsv.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Line)

	r, err = tsv.NewReader(strings.NewReader(reportHeader + "G_1\tT1\tA\t.\n"))
	require.NoError(t, err)
	_, err = SplitAll(r, NewTransformer(cols, nil), &recordingWriter{failOn: "T1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestMultiWriter(t *testing.T) {
	a, b := &recordingWriter{}, &recordingWriter{}
	m := MultiWriter{a, b}

	require.NoError(t, m.WriteHeader())
	require.NoError(t, m.Write(&Annotated{TranscriptID: "T1"}))
	require.NoError(t, m.Flush())

	for _, w := range []*recordingWriter{a, b} {
		assert.Equal(t, 1, w.headers)
		assert.Len(t, w.written, 1)
		assert.True(t, w.flushed)
	}

	b.failOn = "T2"
	assert.Error(t, m.Write(&Annotated{TranscriptID: "T2"}))
}
