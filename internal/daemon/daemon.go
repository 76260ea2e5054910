// Package daemon defines the contract with the external query-execution
// collaborator and the clients that speak it. The daemon receives an
// endpoint and normalized parameters and returns a bounded tabular result;
// re-invocation with identical parameters has read-only semantics.
package daemon

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the daemon could not be reached or refused the
// request.
var ErrUnavailable = errors.New("daemon: unavailable")

// Column describes one column of a daemon result set.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Request is the execution order sent to the daemon. Limits are advisory:
// the daemon enforces them, the core only forwards them.
type Request struct {
	EndpointID string            `json:"endpointId"`
	Procedure  string            `json:"procedure"`
	Params     map[string]string `json:"params"`
	MaxRows    int               `json:"maxRows"`
	MaxItems   int               `json:"maxItems"`
}

// Result is the tabular payload returned by the daemon.
type Result struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Executor executes a metric endpoint against the backing data daemon.
// Implementations must honor ctx cancellation and deadlines; the caller
// derives the deadline from the endpoint's configured timeout.
type Executor interface {
	Execute(ctx context.Context, req Request) (Result, error)
}
