// Package dashboard reads the exported query results and derives the
// figures shown by the dashboard.
package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// ErrNoData is returned when an export file does not exist yet.
var ErrNoData = errors.New("no exported data")

type entry struct {
	modTime time.Time
	size    int64
	records []map[string]any
}

// Source reads <Dir>/<name>.json files on demand. Each file is cached on
// its own and re-read when its modification time or size changes.
type Source struct {
	dir    string
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]entry
}

// NewSource creates a Source over an export directory.
func NewSource(dir string, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{dir: dir, logger: logger, cache: make(map[string]entry)}
}

// Dir returns the export directory.
func (s *Source) Dir() string {
	return s.dir
}

// Records returns the records of <name>.json.
func (s *Source) Records(name string) ([]map[string]any, error) {
	path := filepath.Join(s.dir, name+".json")
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoData, name)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.cache[name]; ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		return e.records, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is inside the export directory
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	s.cache[name] = entry{modTime: info.ModTime(), size: info.Size(), records: records}
	s.logger.Debug("loaded export file", slog.String("name", name), slog.Int("records", len(records)))
	return records, nil
}

// Invalidate drops cached files. With no names every entry is dropped.
func (s *Source) Invalidate(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(names) == 0 {
		s.cache = make(map[string]entry)
		return
	}
	for _, n := range names {
		delete(s.cache, n)
	}
}

// Decode loads <name>.json into out, a pointer to a slice of structs
// tagged with the export column names.
func (s *Source) Decode(name string, out any) error {
	records, err := s.Records(name)
	if err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(records); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
