package ai

import (
	"context"
	"sync"

	"github.com/thomas-vilte/repograde/internal/models"
)

type usageTrackerKey struct{}

// UsageTracker sums the token usage of every generation call made under one context.
type UsageTracker struct {
	mu    sync.Mutex
	total models.TokenUsage
	calls int
}

// WithUsageTracker returns a context whose generation calls are recorded by the returned tracker.
func WithUsageTracker(ctx context.Context) (context.Context, *UsageTracker) {
	tracker := &UsageTracker{}
	return context.WithValue(ctx, usageTrackerKey{}, tracker), tracker
}

// RecordUsage adds usage to the tracker carried by ctx, if any.
func RecordUsage(ctx context.Context, usage *models.TokenUsage) {
	tracker, ok := ctx.Value(usageTrackerKey{}).(*UsageTracker)
	if !ok || usage == nil {
		return
	}
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	tracker.total.Add(usage)
	tracker.calls++
}

// Total returns a copy of the accumulated usage, or nil when nothing was recorded.
func (t *UsageTracker) Total() *models.TokenUsage {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.calls == 0 {
		return nil
	}
	total := t.total
	return &total
}

func (t *UsageTracker) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}
