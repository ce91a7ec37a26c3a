// Package main provides the trinotate-split command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/trinotate-split/internal/trinotate"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// usageError marks errors caused by invalid command-line usage.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(os.Stderr, "Run 'trinotate-split --help' for usage.\n")
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var cfgFile string
	viper.Reset()

	cmd := &cobra.Command{
		Use:   "trinotate-split",
		Short: "Split a Trinotate report into BLAST and gene ontology tables",
		Long: `Split a tab-separated Trinotate report into <prefix>_blast.tsv and <prefix>_go.tsv.

The BLAST table holds one row per transcript id (first occurrence wins) with the
best hit Symbol. The GO table holds one row per gene ontology term. With a length
file, only the longest transcript of each gene group is reported.`,
		Example: `  trinotate-split -r trinotate_annotation_report.xls -o genes
  trinotate-split -r report.xls -i transcript_id -o isoforms -l isoforms.lengths.tsv
  trinotate-split -r report.xls -o genes --duckdb annotations.duckdb`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := optionsFromConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(viper.GetBool("verbose"))
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer logger.Sync() //nolint:errcheck

			return runSplit(opts, logger)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.trinotate-split.yaml)")

	defaults := trinotate.DefaultColumns()
	f := cmd.Flags()
	f.StringP("report", "r", "", "Trinotate report (tab separated, header required; '-' for stdin)")
	f.StringP("item_column", "i", defaults.Item, `Column name for the item to select ("#gene_id" for genes, "transcript_id" for transcripts)`)
	f.StringP("Top_BLASTX_hit", "b", defaults.Blast, "Column name for top blast hit")
	f.StringP("gene_ontology", "g", defaults.GO, "Column name for gene ontology")
	f.StringP("output", "o", "", "Output file prefix")
	f.StringP("length_file", "l", "", "Gene/transcript length file (tab separated, columns id and length); if set, only the longest transcript per gene is reported")
	f.String("duckdb", "", "Also export both tables to this DuckDB database")
	f.BoolP("verbose", "v", false, "Enable debug logging")

	for _, name := range []string{"report", "item_column", "Top_BLASTX_hit", "gene_ontology", "output", "length_file", "duckdb", "verbose"} {
		viper.BindPFlag(strings.ToLower(name), f.Lookup(name)) //nolint:errcheck
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err.Error()}
	})
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newInfoCmd())
	return cmd
}

// initConfig loads the config file and environment overrides.
func initConfig(cfgFile string) error {
	viper.SetEnvPrefix("TRINOTATE_SPLIT")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".trinotate-split")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Options holds the settings of one split run.
type Options struct {
	ReportPath string
	LengthPath string
	Prefix     string
	DuckDBPath string
	Columns    trinotate.Columns
}

func optionsFromConfig() (Options, error) {
	opts := Options{
		ReportPath: viper.GetString("report"),
		LengthPath: viper.GetString("length_file"),
		Prefix:     viper.GetString("output"),
		DuckDBPath: viper.GetString("duckdb"),
		Columns: trinotate.Columns{
			Item:  viper.GetString("item_column"),
			Blast: viper.GetString("top_blastx_hit"),
			GO:    viper.GetString("gene_ontology"),
		},
	}
	if opts.ReportPath == "" {
		return opts, &usageError{"--report is required"}
	}
	if opts.Prefix == "" {
		return opts, &usageError{"--output is required"}
	}
	opts.DuckDBPath = duckdbPath(opts.DuckDBPath)
	return opts, nil
}

// duckdbPath adds the .duckdb extension unless the path already has a
// database extension.
func duckdbPath(p string) string {
	if p == "" {
		return ""
	}
	if ext := filepath.Ext(p); ext != ".duckdb" && ext != ".db" {
		return p + ".duckdb"
	}
	return p
}

// newLogger creates a console logger on stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
