package filestorage

import (
	"sync"

	"github.com/dmorales/aulago/internal/pkg/logger"
)

// Cleaner is a best-effort blob deletion queue. Record mutations commit
// first; the blob removal is scheduled afterwards and is allowed to fail.
// Failures are logged and swallowed, never surfaced to the caller.
type Cleaner struct {
	storage FileStorage
	queue   chan string
	wg      sync.WaitGroup
	once    sync.Once
}

// NewCleaner starts a cleaner draining scheduled deletions in the background.
func NewCleaner(storage FileStorage) *Cleaner {
	c := &Cleaner{
		storage: storage,
		queue:   make(chan string, 64),
	}
	c.wg.Add(1)
	go c.run()
	return c
}

func (c *Cleaner) run() {
	defer c.wg.Done()
	for path := range c.queue {
		if err := c.storage.DeleteFile(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Scheduled blob deletion failed")
		}
	}
}

// Schedule queues a blob for deletion. Empty paths are ignored. When the
// queue is full the deletion runs inline rather than blocking the request.
func (c *Cleaner) Schedule(path string) {
	if path == "" {
		return
	}
	select {
	case c.queue <- path:
	default:
		if err := c.storage.DeleteFile(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Inline blob deletion failed")
		}
	}
}

// Close drains outstanding deletions and stops the worker.
func (c *Cleaner) Close() {
	c.once.Do(func() {
		close(c.queue)
	})
	c.wg.Wait()
}
