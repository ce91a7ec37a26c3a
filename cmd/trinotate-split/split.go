package main

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/trinotate-split/internal/duckdb"
	"github.com/inodb/trinotate-split/internal/output"
	"github.com/inodb/trinotate-split/internal/trinotate"
	"github.com/inodb/trinotate-split/internal/tsv"
)

// runSplit reads the report, builds the optional length index and writes both tables.
func runSplit(opts Options, logger *zap.Logger) (err error) {
	report, err := tsv.Open(opts.ReportPath)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer report.Close()

	cols, err := opts.Columns.Resolve(report.Header())
	if err != nil {
		return fmt.Errorf("report %s: %w", opts.ReportPath, err)
	}

	index, err := trinotate.LoadLengthIndex(opts.LengthPath, cols.Transcript)
	if err != nil {
		return err
	}
	if opts.LengthPath != "" {
		logger.Info("loaded length index",
			zap.String("path", opts.LengthPath),
			zap.Int("gene_groups", index.Len()))
	}

	files, err := output.CreateFiles(opts.Prefix, report.Header(), cols)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := files.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	writer := trinotate.MultiWriter{files}
	var exporter *duckdb.Exporter
	if opts.DuckDBPath != "" {
		store, err := duckdb.Open(opts.DuckDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		exporter = duckdb.NewExporter(store)
		defer exporter.Close() //nolint:errcheck
		writer = append(writer, exporter)
	}

	transformer := trinotate.NewTransformer(cols, index)
	transformer.SetLogger(logger)

	summary, err := trinotate.SplitAll(report, transformer, writer)
	if err != nil {
		return err
	}

	logger.Info("split complete",
		zap.String("blast", files.BlastPath),
		zap.String("go", files.GOPath),
		zap.Int("records", summary.Records),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("not_longest", summary.Ineligible),
		zap.Int("blast_rows", summary.BlastRows),
		zap.Int("go_rows", summary.GORows))
	if exporter != nil {
		meta, err := exportMetadata(opts.ReportPath, summary)
		if err != nil {
			return err
		}
		if err := exporter.Commit(meta); err != nil {
			return err
		}
		logger.Info("exported to duckdb", zap.String("path", opts.DuckDBPath))
	}
	return nil
}

// exportMetadata describes which report the DuckDB tables are built from.
func exportMetadata(reportPath string, summary trinotate.Summary) (duckdb.ExportMetadata, error) {
	meta := duckdb.ExportMetadata{
		Report:     duckdb.FileFingerprint{Path: reportPath},
		Summary:    summary,
		ExportedAt: time.Now(),
	}
	if reportPath != "-" {
		abs, err := filepath.Abs(reportPath)
		if err != nil {
			return meta, fmt.Errorf("resolve report path: %w", err)
		}
		fp, err := duckdb.StatFile(abs)
		if err != nil {
			return meta, fmt.Errorf("stat report: %w", err)
		}
		meta.Report = fp
	}
	return meta, nil
}
