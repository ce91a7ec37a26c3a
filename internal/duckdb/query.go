package duckdb

import (
	"database/sql"
	"fmt"
)

// BlastAnnotation is an exported BLAST table row.
type BlastAnnotation struct {
	ItemID                  string
	TranscriptID            string
	GeneGroup               string
	Symbol                  string
	LongestTranscriptLength sql.NullFloat64
	LongestTranscriptID     sql.NullString
}

// Counts returns the number of exported BLAST and GO rows.
func (s *Store) Counts() (blast, goRows int, err error) {
	if err := s.db.QueryRow("SELECT count(*) FROM blast_annotations").Scan(&blast); err != nil {
		return 0, 0, fmt.Errorf("count blast annotations: %w", err)
	}
	if err := s.db.QueryRow("SELECT count(*) FROM go_annotations").Scan(&goRows); err != nil {
		return 0, 0, fmt.Errorf("count go annotations: %w", err)
	}
	return blast, goRows, nil
}

// LookupTranscript returns the BLAST annotation of a transcript, or nil if absent.
func (s *Store) LookupTranscript(transcriptID string) (*BlastAnnotation, error) {
	var a BlastAnnotation
	err := s.db.QueryRow(`SELECT
		item_id, transcript_id, gene_group, symbol,
		longest_transcript_length, longest_transcript_id
		FROM blast_annotations
		WHERE transcript_id=?`, transcriptID).Scan(
		&a.ItemID, &a.TranscriptID, &a.GeneGroup, &a.Symbol,
		&a.LongestTranscriptLength, &a.LongestTranscriptID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	return &a, nil
}

// TermsForItem returns the GO terms exported for an item, in insertion order.
func (s *Store) TermsForItem(itemID string) ([]string, error) {
	return s.queryStrings(`SELECT go_term FROM go_annotations WHERE item_id=? ORDER BY rowid`, itemID)
}

// ItemsForTerm returns the distinct items annotated with a GO term.
func (s *Store) ItemsForTerm(term string) ([]string, error) {
	return s.queryStrings(`SELECT DISTINCT item_id FROM go_annotations WHERE go_term=? ORDER BY item_id`, term)
}

func (s *Store) queryStrings(query string, args ...any) ([]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}
