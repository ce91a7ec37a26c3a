package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/trinotate-split/internal/trinotate"
	"github.com/inodb/trinotate-split/internal/tsv"
)

const report = "#gene_id\ttranscript_id\tsprot_Top_BLASTX_hit\tgene_ontology_blast\tprot_id\n" +
	"TRINITY_DN1_c0_g1\tTRINITY_DN1_c0_g1_i1\tACT1^Q9^90%\tGO:0005524^mf^ATP`GO:0005737^cc^cyto\tp1\n" +
	"TRINITY_DN1_c0_g1\tTRINITY_DN1_c0_g1_i1\tDUP^x\tGO:9^x\tp1\n" +
	"TRINITY_DN2_c0_g1\tTRINITY_DN2_c0_g1_i1\t.\t.\t.\n"

func splitReport(t *testing.T, content string, idx *trinotate.LengthIndex) (blast, goOut string) {
	t.Helper()
	r, err := tsv.NewReader(strings.NewReader(content))
	require.NoError(t, err)
	cols, err := trinotate.DefaultColumns().Resolve(r.Header())
	require.NoError(t, err)

	var blastBuf, goBuf bytes.Buffer
	w := NewSplitWriter(&blastBuf, &goBuf, r.Header(), cols)
	_, err = trinotate.SplitAll(r, trinotate.NewTransformer(cols, idx), w)
	require.NoError(t, err)
	return blastBuf.String(), goBuf.String()
}

func TestBlastColumns(t *testing.T) {
	h := tsv.NewHeader([]string{"a", "#gene_id", "b"})
	got := BlastColumns(h, trinotate.Columns{Item: "#gene_id"})
	assert.Equal(t, []string{
		"#gene_id", "Symbol", "a", "b",
		"longest_transcript_length", "longest_transcript_id",
	}, got)
}

func TestSplitWriter_NoLengthFile(t *testing.T) {
	blast, goOut := splitReport(t, report, nil)

	assert.Equal(t,
		"#gene_id\tSymbol\ttranscript_id\tsprot_Top_BLASTX_hit\tgene_ontology_blast\tprot_id\tlongest_transcript_length\tlongest_transcript_id\n"+
			"TRINITY_DN1_c0_g1\tACT1\tTRINITY_DN1_c0_g1_i1\tACT1^Q9^90%\tGO:0005524^mf^ATP`GO:0005737^cc^cyto\tp1\t\t\n"+
			"TRINITY_DN2_c0_g1\t.\tTRINITY_DN2_c0_g1_i1\t.\t.\t.\t\t\n",
		blast)

	assert.Equal(t,
		"#gene_id\tgene_ontology_blast\n"+
			"TRINITY_DN1_c0_g1\tGO:0005524\n"+
			"TRINITY_DN1_c0_g1\tGO:0005737\n",
		goOut)
}

func TestSplitWriter_WithLengthIndex(t *testing.T) {
	lengths := "transcript_id\tlength\n" +
		"TRINITY_DN1_c0_g1_i1\t1500\n" +
		"TRINITY_DN1_c0_g2_i1\t300\n" +
		"TRINITY_DN2_c0_g1_i1\t200\n" +
		"TRINITY_DN2_c1_g1_i1\t800\n"
	lr, err := tsv.NewReader(strings.NewReader(lengths))
	require.NoError(t, err)
	idx, err := trinotate.BuildLengthIndex(lr, "transcript_id")
	require.NoError(t, err)

	blast, goOut := splitReport(t, report, idx)

	lines := strings.Split(strings.TrimRight(blast, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"TRINITY_DN1_c0_g1\tACT1\tTRINITY_DN1_c0_g1_i1\tACT1^Q9^90%\tGO:0005524^mf^ATP`GO:0005737^cc^cyto\tp1\t1500\tTRINITY_DN1_c0_g1_i1",
		lines[1])

	assert.Equal(t, 3, strings.Count(goOut, "\n"))
}

func TestCreateFiles(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "sample")
	h := tsv.NewHeader([]string{"#gene_id", "transcript_id", "sprot_Top_BLASTX_hit", "gene_ontology_blast"})
	cols, err := trinotate.DefaultColumns().Resolve(h)
	require.NoError(t, err)

	// Existing output is overwritten, not appended to.
	require.NoError(t, os.WriteFile(prefix+BlastSuffix, []byte("stale\n"), 0o644))

	fw, err := CreateFiles(prefix, h, cols)
	require.NoError(t, err)
	assert.Equal(t, prefix+BlastSuffix, fw.BlastPath)
	assert.Equal(t, prefix+GOSuffix, fw.GOPath)

	require.NoError(t, fw.WriteHeader())
	require.NoError(t, fw.Write(&trinotate.Annotated{
		Record: tsv.NewRecord(h, []string{"G_1", "T1", "S^1", "GO:1^a"}),
		ItemID: "G_1", TranscriptID: "T1", GOField: "GO:1^a",
	}))
	require.NoError(t, fw.Flush())
	require.NoError(t, fw.Close())

	data, err := os.ReadFile(fw.BlastPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Equal(t, 2, strings.Count(string(data), "\n"))

	data, err = os.ReadFile(fw.GOPath)
	require.NoError(t, err)
	assert.Equal(t, "#gene_id\tgene_ontology_blast\nG_1\tGO:1\n", string(data))
}

func TestCreateFiles_BadDirectory(t *testing.T) {
	h := tsv.NewHeader([]string{"#gene_id", "transcript_id"})
	_, err := CreateFiles(filepath.Join(t.TempDir(), "missing", "sample"), h, trinotate.Columns{Item: "#gene_id"})
	assert.Error(t, err)
}
