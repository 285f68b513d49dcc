package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mikedotJS/loggy/internal/aggregator"
	"github.com/mikedotJS/loggy/internal/parser"
)

var detectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Report which log formats a file contains",
	Long: `detect parses the file and prints per-format line counts, level
counts and the time range, without printing the records themselves.
With --output json or yaml the report is machine readable.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	content, name, err := readLogFile(args[0])
	if err != nil {
		return err
	}

	result := parser.New().Parse(content, name)
	stats := aggregator.Summarize(result)

	switch viper.GetString("output") {
	case "json":
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case "yaml":
		data, err := yaml.Marshal(stats)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		printStatsText(cmd, stats)
	}
	return nil
}

func printStatsText(cmd *cobra.Command, stats aggregator.FileStats) {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "File:    %s\n", stats.Filename)
	fmt.Fprintf(w, "Lines:   %d (%d blank)\n", stats.TotalLines, stats.BlankLines)
	fmt.Fprintf(w, "Records: %d\n", stats.Records)
	fmt.Fprintf(w, "Format:  %s\n", stats.DetectedFormat)
	if !stats.Earliest.IsZero() {
		fmt.Fprintf(w, "Range:   %s to %s\n",
			stats.Earliest.Format("2006-01-02 15:04:05"),
			stats.Latest.Format("2006-01-02 15:04:05"))
	}

	if len(stats.FormatCounts) > 0 {
		fmt.Fprintln(w, "\nFormats:")
		for _, name := range sortedByCount(stats.FormatCounts) {
			fmt.Fprintf(w, "  %-16s %d\n", name, stats.FormatCounts[name])
		}
	}
	if len(stats.LevelCounts) > 0 {
		fmt.Fprintln(w, "\nLevels:")
		for _, name := range sortedByCount(stats.LevelCounts) {
			fmt.Fprintf(w, "  %-16s %d\n", name, stats.LevelCounts[name])
		}
	}
}

// sortedByCount orders keys by descending count, then by name for equal
// counts, so repeated runs print identically.
func sortedByCount(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
