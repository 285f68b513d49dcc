package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mikedotJS/loggy/internal/hub"
	"github.com/mikedotJS/loggy/internal/logging"
	"github.com/mikedotJS/loggy/internal/model"
	"github.com/mikedotJS/loggy/internal/output"
	"github.com/mikedotJS/loggy/internal/parser"
	"github.com/mikedotJS/loggy/internal/tailer"
	"github.com/mikedotJS/loggy/internal/watcher"
)

var (
	watchLevels     []string
	watchSearch     string
	watchCheckpoint string
)

var watchCmd = &cobra.Command{
	Use:   "watch <pattern>...",
	Short: "Tail log files live and print records as they arrive",
	Long: `watch follows the files matching the given glob patterns, parses
each appended line and prints the structured record. Positions are
checkpointed, so a restarted watch resumes where it stopped.

Patterns support ** for recursive matching:

  loggy watch /var/log/app/*.log
  loggy watch '/var/log/**/*.log' --level error,fatal`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchLevels, "level", nil, "only show these levels (comma separated)")
	watchCmd.Flags().StringVarP(&watchSearch, "search", "s", "", "only show messages containing this text")
	watchCmd.Flags().StringVar(&watchCheckpoint, "checkpoint", tailer.DefaultCheckpointFile, "checkpoint file for resume positions")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	criteria, err := buildCriteria(watchLevels, watchSearch, "", "", nil)
	if err != nil {
		return err
	}

	// --- Set up context with graceful shutdown ---
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Initialize watcher ---
	w, err := watcher.New(args)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if len(w.Paths()) == 0 {
		return fmt.Errorf("no files matched the given patterns: %v", args)
	}

	fmt.Fprintf(os.Stderr, "loggy watching %d file(s):\n", len(w.Paths()))
	for _, p := range w.Paths() {
		fmt.Fprintf(os.Stderr, "   • %s\n", p)
	}
	fmt.Fprintln(os.Stderr)

	// --- Initialize checkpoint and tailer ---
	cp, err := tailer.LoadCheckpoint(watchCheckpoint)
	if err != nil {
		return fmt.Errorf("load checkpoint: %w", err)
	}

	log := logging.Component("watch")
	raw := make(chan model.RawLine, 1024)
	tl := tailer.New(raw, cp)
	for _, path := range w.Paths() {
		if err := tl.Open(path); err != nil {
			log.WithError(err).Warnf("cannot open %s", path)
		}
	}

	// --- Choose renderer ---
	var renderer output.Renderer
	if renderModeJSON() {
		renderer = output.NewJSONRenderer(os.Stdout)
	} else {
		renderer = output.NewTextRenderer(os.Stdout)
	}

	// --- Start pipeline ---
	h := hub.New(raw, parser.New())
	go w.Start(ctx)
	go tl.Run(ctx, w.Events, 5*time.Second)
	go h.Run(ctx)

	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	// --- Render output ---
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "\nloggy shutting down...")
			if dropped := h.Dropped(); dropped > 0 {
				log.Warnf("%d records dropped during this session", dropped)
			}
			return nil
		case rec, ok := <-sub:
			if !ok {
				return nil
			}
			if !criteria.Match(rec) {
				continue
			}
			if err := renderer.Render(rec); err != nil {
				return err
			}
		}
	}
}
