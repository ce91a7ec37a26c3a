package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configKeys are the settings a config file may hold, in display order.
// They mirror the root command flags, lowercased as viper stores them.
var configKeys = []string{
	"report",
	"item_column",
	"top_blastx_hit",
	"gene_ontology",
	"output",
	"length_file",
	"duckdb",
	"verbose",
}

// boolKeys hold flags of boolean type; every other key is a column name or path.
var boolKeys = map[string]bool{
	"verbose": true,
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage default option values",
		Long: `Show, get, or set default option values.

Values are stored in ~/.trinotate-split.yaml (or the file given with --config)
and apply whenever the matching flag is not given on the command line.
Keys: ` + strings.Join(configKeys, ", "),
		Example: `  trinotate-split config                                      # show effective values
  trinotate-split config set item_column transcript_id        # report isoforms by default
  trinotate-split config set Top_BLASTX_hit sprot_Top_BLASTP_hit
  trinotate-split config get gene_ontology`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a default option value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get the effective value of an option",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := configKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), viper.Get(key))
			return nil
		},
	}
}

// configKey normalizes a key and rejects unknown ones.
func configKey(key string) (string, error) {
	k := strings.ToLower(key)
	if !slices.Contains(configKeys, k) {
		return "", &usageError{fmt.Sprintf("unknown config key %q (keys: %s)", key, strings.Join(configKeys, ", "))}
	}
	return k, nil
}

// runConfigShow prints the effective value of every key: flag defaults
// overlaid with the config file and environment.
func runConfigShow(w io.Writer) error {
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "# config file: %s\n", used)
	} else {
		fmt.Fprintln(w, "# no config file; showing defaults")
	}

	var doc yaml.Node
	doc.Kind = yaml.MappingNode
	for _, key := range configKeys {
		var val yaml.Node
		if err := val.Encode(viper.Get(key)); err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &val)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(w, string(out))
	return nil
}

// runConfigSet stores one key in the config file, keeping the keys already
// there. Flag defaults are not written.
func runConfigSet(w io.Writer, key, value string) error {
	k, err := configKey(key)
	if err != nil {
		return err
	}

	var stored any = value
	if boolKeys[k] {
		b, err := parseBool(value)
		if err != nil {
			return &usageError{fmt.Sprintf("%s: %v", k, err)}
		}
		stored = b
	}

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".trinotate-split.yaml")
	}

	file := viper.New()
	file.SetConfigFile(cfgFile)
	file.SetConfigType("yaml")
	if err := file.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	file.Set(k, stored)

	if err := file.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(w, "Set %s = %v in %s\n", k, stored, cfgFile)
	return nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", value)
}
