package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/inodb/trinotate-split/internal/trinotate"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// ExportMetadata describes the report behind the exported tables.
type ExportMetadata struct {
	Report     FileFingerprint
	Summary    trinotate.Summary
	ExportedAt time.Time
}

func (s *Store) ensureMetadataSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS export_metadata (
		report_path VARCHAR,
		report_size BIGINT,
		report_mod_time TIMESTAMP,
		records BIGINT,
		duplicates BIGINT,
		not_longest BIGINT,
		blast_rows BIGINT,
		go_rows BIGINT,
		gene_groups BIGINT,
		exported_at TIMESTAMP
	)`)
	return err
}

// replaceMetadata replaces the stored export metadata within tx.
func replaceMetadata(ctx context.Context, tx *sql.Tx, m ExportMetadata) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM export_metadata"); err != nil {
		return fmt.Errorf("clear metadata: %w", err)
	}
	sum := m.Summary
	if _, err := tx.ExecContext(ctx, `INSERT INTO export_metadata VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Report.Path, m.Report.Size, m.Report.ModTime.UTC().Truncate(time.Microsecond),
		sum.Records, sum.Duplicates, sum.Ineligible, sum.BlastRows, sum.GORows, sum.GeneGroups,
		m.ExportedAt.UTC().Truncate(time.Microsecond),
	); err != nil {
		return fmt.Errorf("insert metadata: %w", err)
	}
	return nil
}

// ReadMetadata returns the stored export metadata, or nil if nothing was exported.
func (s *Store) ReadMetadata() (*ExportMetadata, error) {
	var m ExportMetadata
	err := s.db.QueryRow(`SELECT
		report_path, report_size, report_mod_time,
		records, duplicates, not_longest, blast_rows, go_rows, gene_groups,
		exported_at
		FROM export_metadata LIMIT 1`).Scan(
		&m.Report.Path, &m.Report.Size, &m.Report.ModTime,
		&m.Summary.Records, &m.Summary.Duplicates, &m.Summary.Ineligible,
		&m.Summary.BlastRows, &m.Summary.GORows, &m.Summary.GeneGroups,
		&m.ExportedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return &m, nil
}

// IsCurrent reports whether the stored export was made from the file
// described by fp, matching path, size and modification time.
// Modification times are compared at the microsecond precision DuckDB stores.
func (s *Store) IsCurrent(fp FileFingerprint) (bool, error) {
	m, err := s.ReadMetadata()
	if err != nil || m == nil {
		return false, err
	}
	return m.Report.Path == fp.Path &&
		m.Report.Size == fp.Size &&
		m.Report.ModTime.Equal(fp.ModTime.Truncate(time.Microsecond)), nil
}
