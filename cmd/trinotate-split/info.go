package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/trinotate-split/internal/duckdb"
)

func newInfoCmd() *cobra.Command {
	var (
		dbPath      string
		transcripts []string
		items       []string
		terms       []string
	)

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Describe a DuckDB export and look up annotations in it",
		Long: `Show which report a DuckDB export was built from, whether that report has
changed since, and the exported row counts. Optionally look up transcripts,
the GO terms of items, or the items annotated with a GO term.`,
		Example: `  trinotate-split info --duckdb annotations.duckdb
  trinotate-split info --duckdb annotations.duckdb --transcript TRINITY_DN1_c0_g1_i1
  trinotate-split info --duckdb annotations.duckdb --item TRINITY_DN1_c0_g1 --term GO:0005524`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = duckdbPath(viper.GetString("duckdb"))
			}
			if dbPath == "" {
				return &usageError{"--duckdb is required"}
			}
			if _, err := os.Stat(dbPath); err != nil {
				return fmt.Errorf("open export: %w", err)
			}

			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			w := cmd.OutOrStdout()
			if err := printExportInfo(w, store, dbPath); err != nil {
				return err
			}
			return printLookups(w, store, transcripts, items, terms)
		},
	}

	f := cmd.Flags()
	f.StringVar(&dbPath, "duckdb", "", "DuckDB export to inspect (default: configured duckdb)")
	f.StringSliceVar(&transcripts, "transcript", nil, "Show the BLAST annotation of a transcript id (repeatable)")
	f.StringSliceVar(&items, "item", nil, "Show the GO terms of an item id (repeatable)")
	f.StringSliceVar(&terms, "term", nil, "Show the items annotated with a GO term (repeatable)")

	return cmd
}

func printExportInfo(w io.Writer, store *duckdb.Store, dbPath string) error {
	fmt.Fprintf(w, "database: %s\n", dbPath)

	meta, err := store.ReadMetadata()
	if err != nil {
		return err
	}
	if meta == nil {
		fmt.Fprintln(w, "status: empty (no export committed)")
		return nil
	}

	fmt.Fprintf(w, "report: %s (%d bytes, modified %s)\n",
		meta.Report.Path, meta.Report.Size, meta.Report.ModTime.Local().Format(time.RFC3339))
	fmt.Fprintf(w, "exported: %s\n", meta.ExportedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(w, "status: %s\n", exportStatus(store, meta.Report.Path))

	sum := meta.Summary
	fmt.Fprintf(w, "records: %d\nduplicates: %d\nnot_longest: %d\ngene_groups: %d\n",
		sum.Records, sum.Duplicates, sum.Ineligible, sum.GeneGroups)

	blast, goRows, err := store.Counts()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "blast_annotations: %d\ngo_annotations: %d\n", blast, goRows)
	return nil
}

// exportStatus compares the recorded report fingerprint with the file on disk.
func exportStatus(store *duckdb.Store, reportPath string) string {
	if reportPath == "-" {
		return "unknown (report read from stdin)"
	}
	fp, err := duckdb.StatFile(reportPath)
	if err != nil {
		return "report missing"
	}
	current, err := store.IsCurrent(fp)
	if err != nil {
		return "unknown (" + err.Error() + ")"
	}
	if !current {
		return "stale (report changed since export)"
	}
	return "current"
}

func printLookups(w io.Writer, store *duckdb.Store, transcripts, items, terms []string) error {
	for _, id := range transcripts {
		a, err := store.LookupTranscript(id)
		if err != nil {
			return err
		}
		if a == nil {
			fmt.Fprintf(w, "transcript %s: not exported\n", id)
			continue
		}
		longest := "-"
		if a.LongestTranscriptID.Valid {
			longest = fmt.Sprintf("%s (%g)", a.LongestTranscriptID.String, a.LongestTranscriptLength.Float64)
		}
		fmt.Fprintf(w, "transcript %s: item=%s gene_group=%s symbol=%s longest=%s\n",
			a.TranscriptID, a.ItemID, a.GeneGroup, a.Symbol, longest)
	}

	for _, item := range items {
		got, err := store.TermsForItem(item)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "item %s: %d terms%s\n", item, len(got), listSuffix(got))
	}

	for _, term := range terms {
		got, err := store.ItemsForTerm(term)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "term %s: %d items%s\n", term, len(got), listSuffix(got))
	}
	return nil
}

func listSuffix(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return " " + strings.Join(values, " ")
}
