package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mikedotJS/loggy/internal/export"
	"github.com/mikedotJS/loggy/internal/filter"
	"github.com/mikedotJS/loggy/internal/output"
	"github.com/mikedotJS/loggy/internal/parser"
)

var (
	parseLevels []string
	parseSearch string
	parseFrom   string
	parseTo     string
	parseMeta   []string
	parseExport bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a log file and print structured records",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringSliceVar(&parseLevels, "level", nil, "only show these levels (comma separated)")
	parseCmd.Flags().StringVarP(&parseSearch, "search", "s", "", "only show messages containing this text")
	parseCmd.Flags().StringVar(&parseFrom, "from", "", "only show records at or after this time")
	parseCmd.Flags().StringVar(&parseTo, "to", "", "only show records at or before this time")
	parseCmd.Flags().StringArrayVar(&parseMeta, "meta", nil, "only show records with metadata key=value (repeatable)")
	parseCmd.Flags().BoolVar(&parseExport, "export", false, "also write the filtered lines to <file>.filtered.log")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	content, name, err := readLogFile(args[0])
	if err != nil {
		return err
	}

	criteria, err := buildCriteria(parseLevels, parseSearch, parseFrom, parseTo, parseMeta)
	if err != nil {
		return err
	}

	result := parser.New().Parse(content, name)
	records := filter.Apply(result.Records, criteria)

	var renderer output.Renderer
	if renderModeJSON() {
		renderer = output.NewJSONRenderer(os.Stdout)
	} else {
		renderer = output.NewTextRenderer(os.Stdout)
	}
	for _, rec := range records {
		if err := renderer.Render(rec); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "%d of %d records shown, %d lines total, format %q\n",
		len(records), len(result.Records), result.TotalLines, result.DetectedFormat)

	if parseExport {
		outName := export.Filename(name)
		if err := os.WriteFile(outName, []byte(export.Content(records)), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", outName)
	}
	return nil
}
