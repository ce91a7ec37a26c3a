// Package duckdb exports split Trinotate annotations to a DuckDB database.
// Each committed export replaces the blast_annotations, go_annotations and
// export_metadata tables in one transaction.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for exported annotations.
type Store struct {
	db *sql.DB
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS blast_annotations (
		item_id VARCHAR,
		transcript_id VARCHAR PRIMARY KEY,
		gene_group VARCHAR,
		symbol VARCHAR,
		longest_transcript_length DOUBLE,
		longest_transcript_id VARCHAR
	)`); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS go_annotations (
		item_id VARCHAR,
		transcript_id VARCHAR,
		go_term VARCHAR
	)`); err != nil {
		return err
	}
	return s.ensureMetadataSchema()
}
