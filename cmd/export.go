package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/faraday-ai/faraday-dashboard/internal"
	"github.com/faraday-ai/faraday-dashboard/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the dashboard to file",
	Long: `Export the widget set (and session identity) to various formats
(json, jsonl, md, yaml).

By default the export is written to faraday-dashboard.<ext> in the current
directory; use --output to pick a path, or "-" for stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := newController(cmd.Context())
		if err != nil {
			return err
		}
		defer ctrl.Close()

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		snapshot := internal.NewSnapshot(ctrl.Session, ctrl.Store.Widgets(), nil)

		if exportOutput == "-" {
			return exporter.Export(snapshot, os.Stdout)
		}

		path := exportOutput
		if path == "" {
			path = "faraday-dashboard." + exporter.Extension()
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		if err := exporter.Export(snapshot, f); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Printf("Exported %d widgets to %s\n", len(snapshot.Widgets), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "F", "json", "Export format (json, jsonl, md, yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output path (\"-\" for stdout)")
	rootCmd.AddCommand(exportCmd)
}
