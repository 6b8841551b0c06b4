package services

import (
	"context"
	"slices"
	"time"
)

// scheduleHighlights starts a one-shot timer for every highlighted deposit
// that has none yet. The caller holds e.mu.
func (e *DepositEngine) scheduleHighlights() {
	if e.closed {
		return
	}
	for _, d := range e.items {
		if !d.Highlight {
			continue
		}
		if _, ok := e.timers[d.ID]; ok {
			continue
		}
		id := d.ID
		e.timers[id] = time.AfterFunc(e.highlightDelay, func() { e.clearHighlight(id) })
	}
}

// clearHighlight runs on the timer goroutine. A timer that was cancelled, or
// whose deposit is gone, does nothing.
func (e *DepositEngine) clearHighlight(id int64) {
	ctx := context.Background()

	e.mu.Lock()
	if _, ok := e.timers[id]; !ok {
		e.mu.Unlock()
		return
	}
	delete(e.timers, id)

	i := e.indexOf(id)
	if i < 0 || !e.items[i].Highlight {
		e.mu.Unlock()
		return
	}

	next := slices.Clone(e.items)
	next[i].Highlight = false
	if err := e.persist(ctx, next); err != nil {
		e.log.Error(ctx, "failed to clear highlight", "id", id, "error", err)
		e.mu.Unlock()
		return
	}
	e.items = next
	onChange := e.onChange
	e.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// cancelTimer stops the highlight timer of id, if any. The caller holds e.mu.
func (e *DepositEngine) cancelTimer(id int64) {
	if t, ok := e.timers[id]; ok {
		t.Stop()
		delete(e.timers, id)
	}
}

// PendingHighlights reports how many highlight timers have not fired yet.
func (e *DepositEngine) PendingHighlights() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.timers)
}

// Close stops all highlight timers. Highlights that have not been cleared
// stay set and are scheduled again by the next engine that shows them.
func (e *DepositEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	for id := range e.timers {
		e.cancelTimer(id)
	}
}
