package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/mikedotJS/loggy/internal/aggregator"
	"github.com/mikedotJS/loggy/internal/hub"
	"github.com/mikedotJS/loggy/internal/logging"
	"github.com/mikedotJS/loggy/internal/model"
	"github.com/mikedotJS/loggy/internal/parser"
	"github.com/mikedotJS/loggy/internal/server"
	"github.com/mikedotJS/loggy/internal/tailer"
	"github.com/mikedotJS/loggy/internal/watcher"
)

var (
	servePort       int
	serveWatch      []string
	serveMaxUpload  int64
	serveRate       float64
	serveBurst      int
	serveCheckpoint string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the parser over HTTP",
	Long: `serve starts an HTTP API for uploading, querying and exporting log
files. With --watch it also tails the matching files and streams live
records over /ws, with metrics on /api/live/stats.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to listen on")
	serveCmd.Flags().StringSliceVar(&serveWatch, "watch", nil, "glob patterns to tail and stream over /ws")
	serveCmd.Flags().Int64Var(&serveMaxUpload, "max-upload", 32<<20, "upload size limit in bytes")
	serveCmd.Flags().Float64Var(&serveRate, "rate", 2, "sustained uploads per second before throttling")
	serveCmd.Flags().IntVar(&serveBurst, "burst", 5, "upload burst allowance")
	serveCmd.Flags().StringVar(&serveCheckpoint, "checkpoint", tailer.DefaultCheckpointFile, "checkpoint file for tail positions")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		h   *hub.Hub
		agg *aggregator.Aggregator
	)
	if len(serveWatch) > 0 {
		var err error
		h, agg, err = startPipeline(ctx, serveWatch)
		if err != nil {
			return err
		}
	}

	srv := server.New(server.Config{
		Port:           servePort,
		MaxUploadBytes: serveMaxUpload,
		UploadRate:     rate.Limit(serveRate),
		UploadBurst:    serveBurst,
		Hub:            h,
		Agg:            agg,
	})
	return srv.Start(ctx)
}

// startPipeline assembles watcher, tailer, hub and aggregator for the
// live endpoints.
func startPipeline(ctx context.Context, patterns []string) (*hub.Hub, *aggregator.Aggregator, error) {
	w, err := watcher.New(patterns)
	if err != nil {
		return nil, nil, err
	}

	cp, err := tailer.LoadCheckpoint(serveCheckpoint)
	if err != nil {
		return nil, nil, err
	}

	log := logging.Component("serve")
	raw := make(chan model.RawLine, 1024)
	tl := tailer.New(raw, cp)
	for _, path := range w.Paths() {
		if err := tl.Open(path); err != nil {
			log.WithError(err).Warnf("cannot open %s", path)
		}
	}

	h := hub.New(raw, parser.New())
	agg := aggregator.New(h.Subscribe(), h.Dropped, func() int { return len(w.Paths()) })

	go w.Start(ctx)
	go tl.Run(ctx, w.Events, 5*time.Second)
	go h.Run(ctx)
	go agg.Start(ctx)

	log.Infof("tailing %d files", len(w.Paths()))
	return h, agg, nil
}
