package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/coolbeans/lexunit/pkg/batch"
	"github.com/coolbeans/lexunit/pkg/parser"
	"github.com/coolbeans/lexunit/pkg/types"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "lexunit",
		Short: "EUR-Lex document parser and citation extractor",
		Long: `Lexunit parses EUR-Lex HTML documents into flat lists of
structural units with stable hierarchical ids.

It handles both the Official Journal and consolidated markup dialects
and produces:
  - Structural units down to points, subpoints and annex items
  - Extracted and resolved cross-references between units
  - Validation reports and document-level metadata`,
		Version: version,
	}

	rootCmd.AddCommand(parseCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(citationsCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseCmd() *cobra.Command {
	var output string
	var pretty bool
	var noCitations bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a single document to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := parseFile(args[0])
			if err != nil {
				return err
			}
			if noCitations {
				for _, u := range result.Units {
					u.Citations = nil
				}
			}

			data, err := encodeJSON(result, pretty)
			if err != nil {
				return err
			}
			if output == "" {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Printf("Wrote %d units to %s\n", len(result.Units), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	cmd.Flags().BoolVar(&noCitations, "no-citations", false, "omit citations from the output")
	return cmd
}

func batchCmd() *cobra.Command {
	var configPath string
	var workers int
	var outputDir string

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Parse every document in a directory concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := batch.DefaultConfig()
			if configPath != "" {
				loaded, err := batch.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}

			log := logrus.New()
			if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
				log.SetLevel(level)
			}

			summary, err := batch.ProcessDirectory(args[0], cfg, log)
			if err != nil {
				return err
			}
			fmt.Printf("Processed %d documents: %d units, %d citations, %d failures\n",
				summary.Documents, summary.Units, summary.Citations, len(summary.Failures))
			if len(summary.Failures) > 0 {
				return fmt.Errorf("%d documents failed", len(summary.Failures))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "batch configuration YAML")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "concurrent workers")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for JSON output")
	return cmd
}

func citationsCmd() *cobra.Command {
	var typeFilter string

	cmd := &cobra.Command{
		Use:   "citations <file>",
		Short: "List the citations extracted from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := parseFile(args[0])
			if err != nil {
				return err
			}

			type row struct {
				UnitID   string          `json:"unit_id"`
				Citation *types.Citation `json:"citation"`
			}
			var rows []row
			for _, u := range result.Units {
				for _, c := range u.Citations {
					if typeFilter != "" && string(c.Type) != typeFilter {
						continue
					}
					rows = append(rows, row{UnitID: u.ID, Citation: c})
				}
			}

			data, err := encodeJSON(rows, true)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			fmt.Fprintf(os.Stderr, "%d citations\n", len(rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeFilter, "type", "t", "", "only citations of this type (internal, eu_legislation)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("lexunit %s\n", version)
		},
	}
}

func parseFile(path string) (*types.ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return parser.Parse(f, filepath.Base(path))
}

func encodeJSON(v any, pretty bool) ([]byte, error) {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return data, nil
}
