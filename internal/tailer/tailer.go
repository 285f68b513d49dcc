// Package tailer follows appended log files and emits raw lines for
// parsing. It survives truncation and rotation and resumes from a
// checkpoint after restarts.
package tailer

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mikedotJS/loggy/internal/logging"
	"github.com/mikedotJS/loggy/internal/model"
	"github.com/mikedotJS/loggy/internal/watcher"
)

var log = logging.Component("tailer")

type trackedFile struct {
	f       *os.File
	r       *bufio.Reader
	offset  int64
	line    int
	pending string
}

// Tailer reads new content from watched files and sends each complete
// line, numbered per source, to the output channel.
type Tailer struct {
	mu    sync.Mutex
	files map[string]*trackedFile
	out   chan<- model.RawLine
	cp    *Checkpoint
}

// New creates a Tailer emitting lines on out and resuming positions
// from cp.
func New(out chan<- model.RawLine, cp *Checkpoint) *Tailer {
	return &Tailer{
		files: make(map[string]*trackedFile),
		out:   out,
		cp:    cp,
	}
}

// Open starts tracking a file. With a checkpointed position the tailer
// resumes there; otherwise it seeks to the end so only new lines are
// emitted.
func (t *Tailer) Open(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	tf := &trackedFile{f: f, r: bufio.NewReader(f)}
	if offset, line, ok := t.cp.Get(path); ok {
		size := int64(0)
		if fi, err := f.Stat(); err == nil {
			size = fi.Size()
		}
		if offset <= size {
			if _, err := f.Seek(offset, io.SeekStart); err == nil {
				tf.offset = offset
				tf.line = line
			}
		}
		// A shrunken file means rotation happened while we were away;
		// fall through with offset zero and read it from the top.
	} else if end, err := f.Seek(0, io.SeekEnd); err == nil {
		tf.offset = end
	}

	t.mu.Lock()
	t.files[path] = tf
	t.mu.Unlock()

	log.WithField("path", path).WithField("offset", tf.offset).Debug("tracking file")
	return nil
}

// HandleEvent reacts to a single watcher event.
func (t *Tailer) HandleEvent(ev watcher.Event) {
	switch {
	case ev.Op&fsnotify.Remove != 0:
		t.close(ev.Path)
		t.cp.Forget(ev.Path)
	case ev.Op&fsnotify.Rename != 0:
		t.close(ev.Path)
	case ev.Op&fsnotify.Create != 0:
		t.reopen(ev.Path)
	default:
		t.readNew(ev.Path)
	}
}

// Run consumes watcher events until the context is cancelled, saving
// the checkpoint periodically and once more on the way out.
func (t *Tailer) Run(ctx context.Context, events <-chan watcher.Event, saveEvery time.Duration) {
	ticker := time.NewTicker(saveEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.saveCheckpoint()
			t.CloseAll()
			return
		case ev, ok := <-events:
			if !ok {
				t.saveCheckpoint()
				t.CloseAll()
				return
			}
			t.HandleEvent(ev)
		case <-ticker.C:
			t.saveCheckpoint()
		}
	}
}

// readNew drains complete lines appended since the last read. A partial
// line without a trailing newline stays pending until the rest arrives.
func (t *Tailer) readNew(path string) {
	t.mu.Lock()
	tf, ok := t.files[path]
	t.mu.Unlock()
	if !ok {
		return
	}

	if fi, err := tf.f.Stat(); err == nil && fi.Size() < tf.offset {
		// Truncated in place. Start over from the top.
		if _, err := tf.f.Seek(0, io.SeekStart); err != nil {
			return
		}
		tf.r.Reset(tf.f)
		tf.offset = 0
		tf.line = 0
		tf.pending = ""
	}

	for {
		chunk, err := tf.r.ReadString('\n')
		if chunk != "" {
			tf.offset += int64(len(chunk))
			if strings.HasSuffix(chunk, "\n") {
				tf.line++
				t.out <- model.RawLine{
					Text:   tf.pending + strings.TrimRight(chunk, "\r\n"),
					Source: path,
					Number: tf.line,
				}
				tf.pending = ""
			} else {
				tf.pending += chunk
			}
		}
		if err != nil {
			return
		}
	}
}

// reopen replaces the tracked handle after rotation created a fresh
// file at the same path, reading it from the beginning.
func (t *Tailer) reopen(path string) {
	t.close(path)
	t.cp.Forget(path)

	f, err := os.Open(path)
	if err != nil {
		log.WithError(err).Warnf("cannot reopen %s", path)
		return
	}
	t.mu.Lock()
	t.files[path] = &trackedFile{f: f, r: bufio.NewReader(f)}
	t.mu.Unlock()

	log.WithField("path", path).Info("file rotated, reading from start")
	t.readNew(path)
}

func (t *Tailer) close(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tf, ok := t.files[path]; ok {
		tf.f.Close()
		delete(t.files, path)
	}
}

// CloseAll releases every tracked file handle.
func (t *Tailer) CloseAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for path, tf := range t.files {
		tf.f.Close()
		delete(t.files, path)
	}
}

func (t *Tailer) saveCheckpoint() {
	t.mu.Lock()
	for path, tf := range t.files {
		// Pending partial-line bytes are not persisted; the saved offset
		// points at the start of the partial so a resume re-reads it whole.
		t.cp.Set(path, tf.offset-int64(len(tf.pending)), tf.line)
	}
	t.mu.Unlock()

	if err := t.cp.Save(); err != nil {
		log.WithError(err).Warn("cannot save checkpoint")
	}
}
