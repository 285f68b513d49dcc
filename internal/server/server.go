// Package server exposes the parser over HTTP: file uploads, stored
// session queries, filtered exports and a websocket feed of live
// records.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/mikedotJS/loggy/internal/aggregator"
	"github.com/mikedotJS/loggy/internal/export"
	"github.com/mikedotJS/loggy/internal/filter"
	"github.com/mikedotJS/loggy/internal/hub"
	"github.com/mikedotJS/loggy/internal/logging"
	"github.com/mikedotJS/loggy/internal/model"
	"github.com/mikedotJS/loggy/internal/parser"
	"github.com/mikedotJS/loggy/internal/store"
)

var log = logging.Component("server")

// Config carries the server's knobs. Hub and Agg are optional; when nil
// the live endpoints respond 404.
type Config struct {
	Port           int
	MaxUploadBytes int64
	UploadRate     rate.Limit
	UploadBurst    int
	Hub            *hub.Hub
	Agg            *aggregator.Aggregator
}

// Server hosts the HTTP API.
type Server struct {
	engine  *gin.Engine
	store   *store.Store
	parser  *parser.Parser
	hub     *hub.Hub
	agg     *aggregator.Aggregator
	port    int
	maxSize int64
}

// New assembles the engine, middleware and routes.
func New(cfg Config) *Server {
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 32 << 20 // 32 MiB
	}
	if cfg.UploadRate == 0 {
		cfg.UploadRate = rate.Limit(2)
	}
	if cfg.UploadBurst == 0 {
		cfg.UploadBurst = 5
	}

	s := &Server{
		store:   store.New(),
		parser:  parser.New(),
		hub:     cfg.Hub,
		agg:     cfg.Agg,
		port:    cfg.Port,
		maxSize: cfg.MaxUploadBytes,
	}

	if !logging.Verbose() && gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = false
	engine.Use(gin.Recovery(), requestLogger())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	{
		api.POST("/files", rateLimit(rate.NewLimiter(cfg.UploadRate, cfg.UploadBurst)), s.handleUpload)
		api.GET("/files", s.handleList)
		api.GET("/files/:id", s.handleGet)
		api.GET("/files/:id/records", s.handleRecords)
		api.GET("/files/:id/stats", s.handleStats)
		api.GET("/files/:id/export", s.handleExport)
		api.DELETE("/files/:id", s.handleDelete)
		api.GET("/live/stats", s.handleLiveStats)
	}

	if s.hub != nil {
		engine.GET("/ws", s.handleWebSocket)
	}

	s.engine = engine
	return s
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on http://localhost:%d", s.port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// --- Handlers ---

type sessionSummary struct {
	ID             string         `json:"id"`
	Filename       string         `json:"filename"`
	Uploaded       time.Time      `json:"uploaded"`
	TotalLines     int            `json:"totalLines"`
	Records        int            `json:"records"`
	DetectedFormat string         `json:"detectedFormat"`
	FormatCounts   map[string]int `json:"formatCounts,omitempty"`
}

func summarize(sess *store.Session) sessionSummary {
	return sessionSummary{
		ID:             sess.ID,
		Filename:       sess.Result.Filename,
		Uploaded:       sess.Uploaded,
		TotalLines:     sess.Result.TotalLines,
		Records:        len(sess.Result.Records),
		DetectedFormat: sess.Result.DetectedFormat,
		FormatCounts:   sess.Result.FormatCounts,
	}
}

func (s *Server) handleUpload(c *gin.Context) {
	content, filename, err := s.readUpload(c)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	result := s.parser.Parse(content, filename)
	sess := s.store.Put(result)

	log.WithField("id", sess.ID).
		WithField("filename", filename).
		WithField("records", len(result.Records)).
		Info("file parsed")
	c.JSON(http.StatusCreated, summarize(sess))
}

var errTooLarge = errors.New("upload exceeds size limit")

// readUpload accepts either a multipart form with a "file" part or a
// raw text body.
func (s *Server) readUpload(c *gin.Context) (content, filename string, err error) {
	if fh, ferr := c.FormFile("file"); ferr == nil {
		if fh.Size > s.maxSize {
			return "", "", errTooLarge
		}
		f, oerr := fh.Open()
		if oerr != nil {
			return "", "", oerr
		}
		defer f.Close()
		data, rerr := io.ReadAll(io.LimitReader(f, s.maxSize+1))
		if rerr != nil {
			return "", "", rerr
		}
		if int64(len(data)) > s.maxSize {
			return "", "", errTooLarge
		}
		return string(data), fh.Filename, nil
	}

	data, rerr := io.ReadAll(io.LimitReader(c.Request.Body, s.maxSize+1))
	if rerr != nil {
		return "", "", rerr
	}
	if int64(len(data)) > s.maxSize {
		return "", "", errTooLarge
	}
	if len(data) == 0 {
		return "", "", errors.New("empty upload")
	}
	name := c.Query("filename")
	if name == "" {
		name = "upload.log"
	}
	return string(data), name, nil
}

func (s *Server) handleList(c *gin.Context) {
	sessions := s.store.List()
	out := make([]sessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, summarize(sess))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (s *Server) handleGet(c *gin.Context) {
	sess, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, summarize(sess))
}

func (s *Server) handleRecords(c *gin.Context) {
	sess, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	criteria, err := criteriaFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records := filter.Apply(sess.Result.Records, criteria)

	offset, limit, err := pagination(c, len(records))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page := records[offset : offset+limit]
	c.JSON(http.StatusOK, gin.H{
		"total":   len(records),
		"offset":  offset,
		"limit":   limit,
		"records": page,
	})
}

func (s *Server) handleStats(c *gin.Context) {
	sess, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, aggregator.Summarize(sess.Result))
}

func (s *Server) handleExport(c *gin.Context) {
	sess, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	criteria, err := criteriaFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records := filter.Apply(sess.Result.Records, criteria)

	name := export.Filename(sess.Result.Filename)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(export.Content(records)))
}

func (s *Server) handleDelete(c *gin.Context) {
	if !s.store.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleLiveStats(c *gin.Context) {
	if s.agg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "live tailing not enabled"})
		return
	}
	c.JSON(http.StatusOK, s.agg.Snapshot())
}

// --- Query parsing ---

func criteriaFromQuery(c *gin.Context) (filter.Criteria, error) {
	var criteria filter.Criteria

	if levels := c.Query("level"); levels != "" {
		for _, l := range strings.Split(levels, ",") {
			l = strings.TrimSpace(l)
			if l == "" {
				continue
			}
			criteria.Levels = append(criteria.Levels, model.Level(strings.ToUpper(l)))
		}
	}
	criteria.Query = c.Query("q")

	if from := c.Query("from"); from != "" {
		ts, err := filter.ParseTime(from)
		if err != nil {
			return criteria, err
		}
		criteria.From = ts
	}
	if to := c.Query("to"); to != "" {
		ts, err := filter.ParseTime(to)
		if err != nil {
			return criteria, err
		}
		criteria.To = ts
	}

	for _, pair := range c.QueryArray("meta") {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return criteria, fmt.Errorf("metadata filter %q is not key=value", pair)
		}
		if criteria.Metadata == nil {
			criteria.Metadata = make(map[string]string)
		}
		criteria.Metadata[key] = value
	}

	return criteria, nil
}

// pagination reads the offset/limit query params and clamps the window
// to the record count, so offset and offset+limit always index safely.
func pagination(c *gin.Context, total int) (offset, limit int, err error) {
	offset = 0
	limit = total

	if raw := c.Query("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset %q", raw)
		}
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("invalid limit %q", raw)
		}
	}
	if offset > total {
		offset = total
	}
	// Cap by comparison; offset+limit can overflow for a huge limit.
	if limit > total-offset {
		limit = total - offset
	}
	return offset, limit, nil
}
