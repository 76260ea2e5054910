package daemon

import (
	"context"
	"time"
)

// Mock is the development executor: fixed columns and rows after an
// optional artificial delay. Safe for concurrent use.
type Mock struct {
	// Latency simulates daemon round-trip time. Zero means respond
	// immediately.
	Latency time.Duration
}

var _ Executor = (*Mock)(nil)

// NewMock returns a mock executor with a small default latency.
func NewMock() *Mock {
	return &Mock{Latency: 100 * time.Millisecond}
}

func (m *Mock) Execute(ctx context.Context, req Request) (Result, error) {
	if m.Latency > 0 {
		timer := time.NewTimer(m.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}
	return Result{
		Columns: []Column{
			{Name: "country", Type: "string"},
			{Name: "sales", Type: "number"},
		},
		Rows: [][]any{
			{"US", 1200},
			{"KR", 900},
		},
	}, nil
}
