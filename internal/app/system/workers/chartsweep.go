// internal/app/system/workers/chartsweep.go
package workers

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweeper is anything holding expiring entries that can be pruned.
type Sweeper interface {
	Sweep() int
}

// CacheSweeper periodically prunes expired entries from a cache, such as
// the dashboard chart cache, so entries for data that never comes back do
// not accumulate.
type CacheSweeper struct {
	name     string
	target   Sweeper
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewCacheSweeper creates a sweeper for target running every interval.
func NewCacheSweeper(name string, target Sweeper, logger *zap.Logger, interval time.Duration) *CacheSweeper {
	return &CacheSweeper{
		name:     name,
		target:   target,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background loop.
func (w *CacheSweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("cache sweeper started",
		zap.String("cache", w.name),
		zap.Duration("interval", w.interval))
}

// Stop signals the loop to exit and waits for it.
func (w *CacheSweeper) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	w.log.Info("cache sweeper stopped", zap.String("cache", w.name))
}

func (w *CacheSweeper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *CacheSweeper) sweep() {
	if n := w.target.Sweep(); n > 0 {
		w.log.Debug("swept expired cache entries",
			zap.String("cache", w.name),
			zap.Int("count", n))
	}
}
