package trinotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/trinotate-split/internal/tsv"
)

func TestGeneGroup(t *testing.T) {
	tests := []struct {
		itemID string
		want   string
	}{
		{"GENE_001_A_extra", "GENE_001"},
		{"TRINITY_DN1000_c0_g1_i1", "TRINITY_DN1000"},
		{"GENE_001", "GENE_001"},
		{"GENE", "GENE"},
		{"", ""},
		{"_lead", "_lead"},
	}
	for _, tt := range tests {
		t.Run(tt.itemID, func(t *testing.T) {
			assert.Equal(t, tt.want, GeneGroup(tt.itemID))
		})
	}
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "HIT123", Symbol("HIT123^90%^E:1e-10"))
	assert.Equal(t, "HIT123", Symbol("HIT123"))
	assert.Equal(t, ".", Symbol("."))
	assert.Equal(t, "", Symbol("^lead"))
}

func TestGOTerms(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  []string
	}{
		{"skips sentinel entry", "GO:1^x`.^GO:2^y", []string{"GO:1"}},
		{"all sentinel", ".", nil},
		{"multiple terms", "GO:1^a^b`GO:2^c^d`GO:3", []string{"GO:1", "GO:2", "GO:3"}},
		{"empty field keeps empty term", "", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GOTerms(tt.field))
		})
	}
}

func TestColumns_Resolve(t *testing.T) {
	h := tsv.NewHeader([]string{"#gene_id", "transcript_id", "sprot_Top_BLASTX_hit", "gene_ontology_blast"})

	cols, err := DefaultColumns().Resolve(h)
	require.NoError(t, err)
	assert.Equal(t, "transcript_id", cols.Transcript)
	assert.Equal(t, "#gene_id", cols.Item)
}

func TestColumns_ResolveMissing(t *testing.T) {
	h := tsv.NewHeader([]string{"#gene_id", "transcript_id", "gene_ontology_blast"})

	_, err := DefaultColumns().Resolve(h)
	var ce *ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, DefaultBlastColumn, ce.Column)

	_, err = DefaultColumns().Resolve(tsv.NewHeader([]string{"#gene_id"}))
	require.ErrorAs(t, err, &ce)
}
