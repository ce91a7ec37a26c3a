package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/trinotate-split/internal/trinotate"
)

// Staging tables receive appended rows until Commit swaps them in.
const (
	stagingBlastTable = "staging_blast_annotations"
	stagingGOTable    = "staging_go_annotations"
)

// Exporter appends split annotations to staging tables. It implements
// trinotate.AnnotationWriter so it can run beside the TSV writer.
//
// Nothing is visible in the exported tables until Commit. Close without
// Commit drops the staged rows and leaves the previous export in place.
type Exporter struct {
	store    *Store
	conn     *sql.Conn
	blastApp *goduckdb.Appender
	goApp    *goduckdb.Appender
}

// NewExporter creates an exporter for the store.
func NewExporter(s *Store) *Exporter {
	return &Exporter{store: s}
}

// WriteHeader creates empty staging tables and opens their appenders.
func (e *Exporter) WriteHeader() error {
	ctx := context.Background()
	conn, err := e.store.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	e.conn = conn

	for _, stmt := range []string{
		"CREATE OR REPLACE TABLE " + stagingBlastTable + " AS SELECT * FROM blast_annotations LIMIT 0",
		"CREATE OR REPLACE TABLE " + stagingGOTable + " AS SELECT * FROM go_annotations LIMIT 0",
	} {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create staging table: %w", err)
		}
	}

	if err := conn.Raw(func(driverConn any) error {
		var err error
		e.blastApp, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", stagingBlastTable)
		if err != nil {
			return err
		}
		e.goApp, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", stagingGOTable)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	return nil
}

// Write appends one BLAST row and the record's GO rows.
func (e *Exporter) Write(a *trinotate.Annotated) error {
	if e.blastApp == nil {
		return errors.New("exporter: Write called before WriteHeader")
	}

	var length, longestID any
	if a.Longest != nil {
		length = a.Longest.Length
		longestID = a.Longest.TranscriptID
	}
	if err := e.blastApp.AppendRow(a.ItemID, a.TranscriptID, a.GeneGroup, a.Symbol, length, longestID); err != nil {
		return fmt.Errorf("append blast annotation: %w", err)
	}

	for _, term := range a.GOTerms() {
		if err := e.goApp.AppendRow(a.ItemID, a.TranscriptID, term); err != nil {
			return fmt.Errorf("append go annotation: %w", err)
		}
	}
	return nil
}

// Flush writes the appended rows into the staging tables.
func (e *Exporter) Flush() error {
	if e.blastApp == nil {
		return nil
	}
	if err := errors.Join(e.blastApp.Flush(), e.goApp.Flush()); err != nil {
		return fmt.Errorf("flush duckdb export: %w", err)
	}
	return nil
}

// Commit replaces the exported tables with the staged rows and records m,
// all in one transaction.
func (e *Exporter) Commit(m ExportMetadata) error {
	if e.conn == nil {
		return errors.New("exporter: Commit called before WriteHeader")
	}
	if err := e.closeAppenders(); err != nil {
		return fmt.Errorf("flush duckdb export: %w", err)
	}

	ctx := context.Background()
	tx, err := e.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range []string{
		"DELETE FROM go_annotations",
		"DELETE FROM blast_annotations",
		"INSERT INTO blast_annotations SELECT * FROM " + stagingBlastTable,
		"INSERT INTO go_annotations SELECT * FROM " + stagingGOTable,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("replace exported tables: %w", err)
		}
	}
	if err := replaceMetadata(ctx, tx, m); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return e.Close()
}

// Close drops the staging tables and releases the connection. Rows not yet
// committed are discarded. Close is safe to call more than once.
func (e *Exporter) Close() error {
	if e.conn == nil {
		return nil
	}
	errApp := e.closeAppenders()

	ctx := context.Background()
	var errDrop error
	for _, table := range []string{stagingBlastTable, stagingGOTable} {
		if _, err := e.conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			errDrop = errors.Join(errDrop, err)
		}
	}
	errConn := e.conn.Close()
	e.conn = nil

	if err := errors.Join(errApp, errDrop, errConn); err != nil {
		return fmt.Errorf("close duckdb export: %w", err)
	}
	return nil
}

func (e *Exporter) closeAppenders() error {
	var err error
	if e.blastApp != nil {
		err = errors.Join(err, e.blastApp.Close())
	}
	if e.goApp != nil {
		err = errors.Join(err, e.goApp.Close())
	}
	e.blastApp, e.goApp = nil, nil
	return err
}
