// Package syncer batches reading-progress updates so a burst of position
// changes turns into at most one write per interval, with the newest
// position winning.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/tetherhq/tether-read/log"
	"go.uber.org/zap"
)

const defaultInterval = time.Second

// Progress is one reading position for one book.
type Progress struct {
	BookID     string
	CFI        string
	Percentage float64
}

// Writer persists a reading position. The HTTP client posting to
// /book/{id}/progress is the production implementation.
type Writer interface {
	WriteProgress(ctx context.Context, p Progress) error
}

// Cache holds positions that could not be written, until the next flush
// gets a chance to reconcile them.
type Cache interface {
	Save(p Progress) error
	// Drain returns every cached position and empties the cache.
	Drain() ([]Progress, error)
}

// ProgressSyncer coalesces position updates per book and flushes them on a
// timer. Queue never blocks the caller on network writes.
type ProgressSyncer struct {
	writer   Writer
	cache    Cache
	interval time.Duration

	mu      sync.Mutex
	pending map[string]Progress

	kick chan chan error
	quit chan struct{}
	wg   sync.WaitGroup
}

type Option func(*ProgressSyncer)

// WithInterval overrides the flush interval.
func WithInterval(d time.Duration) Option {
	return func(s *ProgressSyncer) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithCache installs a fallback store for positions whose write failed.
func WithCache(c Cache) Option {
	return func(s *ProgressSyncer) { s.cache = c }
}

func NewProgressSyncer(writer Writer, opts ...Option) *ProgressSyncer {
	s := &ProgressSyncer{
		writer:   writer,
		cache:    NewMemoryCache(),
		interval: defaultInterval,
		pending:  make(map[string]Progress),
		kick:     make(chan chan error),
		quit:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

// Queue records a new position for a book. Later calls for the same book
// replace earlier ones that have not flushed yet.
func (s *ProgressSyncer) Queue(p Progress) {
	s.mu.Lock()
	s.pending[p.BookID] = p
	s.mu.Unlock()
}

// Flush writes everything pending right now and reports the first write
// error, if any.
func (s *ProgressSyncer) Flush(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case s.kick <- reply:
	case <-s.quit:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending positions and stops the flush loop.
func (s *ProgressSyncer) Close() error {
	err := s.Flush(context.Background())
	close(s.quit)
	s.wg.Wait()
	return err
}

func (s *ProgressSyncer) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.flush(context.Background())
		case reply := <-s.kick:
			reply <- s.flush(context.Background())
		case <-s.quit:
			return
		}
	}
}

// flush merges cached leftovers with the pending set and writes each book
// once. Pending positions are newer than cached ones, so they win. A write
// that fails goes back to the cache for the next round.
func (s *ProgressSyncer) flush(ctx context.Context) error {
	batch := make(map[string]Progress)
	if s.cache != nil {
		cached, err := s.cache.Drain()
		if err != nil {
			log.Warn("failed to drain progress cache", zap.Error(err))
		}
		for _, p := range cached {
			batch[p.BookID] = p
		}
	}

	s.mu.Lock()
	for id, p := range s.pending {
		batch[id] = p
	}
	s.pending = make(map[string]Progress)
	s.mu.Unlock()

	var firstErr error
	for _, p := range batch {
		if err := s.writer.WriteProgress(ctx, p); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			log.Warn("failed to sync reading progress",
				zap.String("book", p.BookID), zap.Error(err))
			if s.cache != nil {
				if cerr := s.cache.Save(p); cerr != nil {
					log.Warn("failed to cache reading progress", zap.Error(cerr))
				}
			}
		}
	}
	return firstErr
}

// MemoryCache is the in-process fallback used when no durable cache is
// configured.
type MemoryCache struct {
	mu    sync.Mutex
	items map[string]Progress
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]Progress)}
}

func (c *MemoryCache) Save(p Progress) error {
	c.mu.Lock()
	c.items[p.BookID] = p
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Drain() ([]Progress, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Progress, 0, len(c.items))
	for _, p := range c.items {
		out = append(out, p)
	}
	c.items = make(map[string]Progress)
	return out, nil
}
