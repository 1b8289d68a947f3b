package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentic-research/nestree/internal/ingest"
)

var (
	buildSelector string
	buildValidate bool
)

var buildCmd = &cobra.Command{
	Use:   "build [records.json|records.yaml] [output.db]",
	Short: "Build a nested-set SQLite database from a JSON or YAML export",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, output := args[0], args[1]

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cmd, cfg)

		selector := cfg.Source.Selector
		if buildSelector != "" {
			selector = buildSelector
		}

		// 1. Load records
		start := time.Now()
		records, err := loadRecords(input, selector, cfg.Source.Columns)
		if err != nil {
			return err
		}
		records = ingest.FillRight(records)
		logger.Info("records loaded", "path", input, "count", len(records))

		// 2. Validate the encoding before anything is written
		if buildValidate {
			if err := ingest.Validate(records); err != nil {
				return err
			}
		}

		// 3. Write
		_ = os.Remove(output) // Overwrite
		writer, err := ingest.NewSQLiteWriter(output, cfg.Source.Table, cfg.Source.Columns)
		if err != nil {
			return err
		}
		for _, r := range records {
			if err := writer.Write(r); err != nil {
				_ = writer.Close()
				return err
			}
		}
		if err := writer.Close(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s in %v.\n",
			writer.Total(), output, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildSelector, "selector", "", "JSONPath selecting the record objects (default from config)")
	buildCmd.Flags().BoolVar(&buildValidate, "validate", false, "Refuse to write an invalid nested set")
	rootCmd.AddCommand(buildCmd)
}
