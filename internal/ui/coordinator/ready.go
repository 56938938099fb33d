package coordinator

import (
	"context"
	"time"

	"tvnav/internal/domain"
	"tvnav/internal/ui/services/navigation"
)

// awaitReady highlights the first item once the tree has any. The first
// attempt runs inline; the rest poll until the attempts run out, then give up
// silently.
func (c *Coordinator) awaitReady(ctx context.Context) {
	if c.tryReady(1) {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.opts.ReadyInterval)
		defer ticker.Stop()

		for attempt := 2; attempt <= c.opts.ReadyAttempts; attempt++ {
			select {
			case <-ctx.Done():
				return
			case <-c.done:
				return
			case <-ticker.C:
			}
			if c.tryReady(attempt) {
				return
			}
		}
		c.deps.Logger.Debug("coordinator: no navigable items appeared", "attempts", c.opts.ReadyAttempts)
	}()
}

func (c *Coordinator) tryReady(attempt int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return true
	}
	c.drainLocked()

	// a key press or an overlay got there first
	if c.Navigation.Index() != navigation.NoIndex {
		return true
	}
	mode := c.Overlay.Mode()
	items := c.Query.Items(mode)
	if len(items) == 0 {
		return false
	}
	c.Navigation.Highlight(mode, 0)
	c.drainLocked()

	c.deps.Metrics.Ready(attempt)
	c.deps.Logger.Debug("coordinator: navigation ready", "items", len(items), "attempts", attempt)
	c.publish(domain.NavigationReadyEvent{Items: len(items), Attempts: attempt})
	return true
}
