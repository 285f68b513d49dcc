package tailer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// DefaultCheckpointFile is the state file written next to the working
// directory unless a path is configured.
const DefaultCheckpointFile = ".loggy-state.json"

// checkpointState is the on-disk format. Offsets and line counts are
// keyed by absolute file path so numbering survives restarts.
type checkpointState struct {
	Offsets map[string]int64 `json:"offsets"`
	Lines   map[string]int   `json:"lines"`
}

// Checkpoint persists per-file read positions so a restarted tailer
// resumes where it left off instead of re-emitting old records.
type Checkpoint struct {
	mu    sync.Mutex
	path  string
	state checkpointState
}

// LoadCheckpoint reads the state file at path, returning an empty
// checkpoint when the file does not exist yet.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	if path == "" {
		path = DefaultCheckpointFile
	}
	cp := &Checkpoint{
		path: path,
		state: checkpointState{
			Offsets: make(map[string]int64),
			Lines:   make(map[string]int),
		},
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cp, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &cp.state); err != nil {
		return nil, err
	}
	if cp.state.Offsets == nil {
		cp.state.Offsets = make(map[string]int64)
	}
	if cp.state.Lines == nil {
		cp.state.Lines = make(map[string]int)
	}
	return cp, nil
}

// Get returns the saved offset and line count for a file.
func (c *Checkpoint) Get(path string) (offset int64, line int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	offset, ok = c.state.Offsets[path]
	return offset, c.state.Lines[path], ok
}

// Set records the current position for a file.
func (c *Checkpoint) Set(path string, offset int64, line int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Offsets[path] = offset
	c.state.Lines[path] = line
}

// Forget drops the saved position for a file, used after rotation
// replaces it with a fresh one.
func (c *Checkpoint) Forget(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.state.Offsets, path)
	delete(c.state.Lines, path)
}

// Save writes the state file atomically via a temp file and rename.
func (c *Checkpoint) Save() error {
	c.mu.Lock()
	data, err := json.MarshalIndent(c.state, "", "  ")
	c.mu.Unlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".loggy-state-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, c.path)
}
