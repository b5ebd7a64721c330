package metrics

import (
	"context"
	"sync/atomic"
)

// SyncMetrics - счетчики одного запуска синхронизации.
// Методы безопасны для nil: импорт вне Runner счетчиков не ведет.
type SyncMetrics struct {
	operation string

	CreatedCount atomic.Int32
	UpdatedCount atomic.Int32
	SkippedCount atomic.Int32
	FailedCount  atomic.Int32
}

func NewSyncMetrics(operation string) *SyncMetrics {
	return &SyncMetrics{operation: operation}
}

type syncMetricsKey struct{}

func WithSyncMetrics(ctx context.Context, m *SyncMetrics) context.Context {
	return context.WithValue(ctx, syncMetricsKey{}, m)
}

func FromContext(ctx context.Context) *SyncMetrics {
	m, _ := ctx.Value(syncMetricsKey{}).(*SyncMetrics)
	return m
}

func (m *SyncMetrics) Created() {
	if m == nil {
		return
	}
	m.CreatedCount.Add(1)
	RecordItem(m.operation, OutcomeCreated)
}

func (m *SyncMetrics) Updated() {
	if m == nil {
		return
	}
	m.UpdatedCount.Add(1)
	RecordItem(m.operation, OutcomeUpdated)
}

func (m *SyncMetrics) Skipped() {
	if m == nil {
		return
	}
	m.SkippedCount.Add(1)
	RecordItem(m.operation, OutcomeSkipped)
}

func (m *SyncMetrics) Failed() {
	if m == nil {
		return
	}
	m.FailedCount.Add(1)
	RecordItem(m.operation, OutcomeFailed)
}

type Snapshot struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func (m *SyncMetrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Created: int(m.CreatedCount.Load()),
		Updated: int(m.UpdatedCount.Load()),
		Skipped: int(m.SkippedCount.Load()),
		Failed:  int(m.FailedCount.Load()),
	}
}
