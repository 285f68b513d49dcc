package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mikedotJS/loggy/internal/parser"
	"github.com/mikedotJS/loggy/internal/viewer"
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Browse a log file interactively",
	Long: `view opens a fullscreen browser over the parsed records. Scroll
with j/k, search with /, cycle the level filter with l, quit with q.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	content, name, err := readLogFile(args[0])
	if err != nil {
		return err
	}
	return viewer.Run(parser.New().Parse(content, name))
}
