package syncer

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// FileCache persists unsynced positions to a JSON file so they survive a
// process restart.
type FileCache struct {
	mu   sync.Mutex
	path string
}

func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

func (c *FileCache) Save(p Progress) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read()
	if err != nil {
		return err
	}
	items[p.BookID] = p
	return c.write(items)
}

func (c *FileCache) Drain() ([]Progress, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read()
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	out := make([]Progress, 0, len(items))
	for _, p := range items {
		out = append(out, p)
	}
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to clear progress cache file")
	}
	return out, nil
}

func (c *FileCache) read() (map[string]Progress, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return map[string]Progress{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read progress cache file")
	}

	items := map[string]Progress{}
	if err := json.Unmarshal(data, &items); err != nil {
		// A corrupt cache is dropped rather than blocking the sync loop.
		return map[string]Progress{}, nil
	}
	return items, nil
}

func (c *FileCache) write(items map[string]Progress) error {
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "failed to encode progress cache")
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write progress cache file")
	}
	return nil
}
