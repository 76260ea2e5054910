package query

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"vantage.org/internal/audit"
	"vantage.org/internal/auth"
	"vantage.org/internal/daemon"
	"vantage.org/internal/obs"
)

// Engine runs validated query requests through the external executor and
// shapes the response envelope.
type Engine struct {
	validator *Validator
	executor  daemon.Executor
	recorder  audit.Recorder
}

// NewEngine wires the validator, the delegated executor, and the audit sink.
func NewEngine(validator *Validator, executor daemon.Executor, recorder audit.Recorder) (*Engine, error) {
	if validator == nil {
		return nil, errors.New("validator is required")
	}
	if executor == nil {
		return nil, errors.New("executor is required")
	}
	if recorder == nil {
		return nil, errors.New("audit recorder is required")
	}
	return &Engine{validator: validator, executor: executor, recorder: recorder}, nil
}

// Execute validates the request, delegates the fetch to the daemon under
// the endpoint's timeout, and returns the response envelope. One audit
// record is appended per invocation, on success and on failure.
func (e *Engine) Execute(ctx context.Context, ac auth.AuthContext, req Request) (Response, *Error) {
	verdict, qerr := e.validator.Validate(ctx, ac, req)
	if qerr != nil {
		return Response{}, qerr
	}

	normalized := NormalizeParams(req.Params)
	cacheKey := CacheKey(req.EndpointID, normalized)

	execCtx := ctx
	if verdict.Endpoint.TimeoutMs > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, time.Duration(verdict.Endpoint.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	start := time.Now()
	result, err := e.executor.Execute(execCtx, daemon.Request{
		EndpointID: verdict.Endpoint.ID,
		Procedure:  verdict.Endpoint.Name,
		Params:     normalized,
		MaxRows:    verdict.Endpoint.MaxRows,
		MaxItems:   verdict.Endpoint.MaxItems,
	})
	duration := time.Since(start)

	if err != nil {
		obs.ObserveQuery(req.WorkspaceID, "error", duration)
		_ = e.recorder.Record(ctx, "QUERY_EXECUTE", map[string]any{
			"user":        ac.User,
			"endpointId":  verdict.Endpoint.ID,
			"workspaceId": req.WorkspaceID,
			"durationMs":  duration.Milliseconds(),
			"requestId":   req.RequestID,
			"error":       err.Error(),
		})
		return Response{}, daemonError(req.RequestID, err.Error())
	}

	obs.ObserveQuery(req.WorkspaceID, "ok", duration)
	_ = e.recorder.Record(ctx, "QUERY_EXECUTE", map[string]any{
		"user":        ac.User,
		"endpointId":  verdict.Endpoint.ID,
		"workspaceId": req.WorkspaceID,
		"durationMs":  duration.Milliseconds(),
		"rowCount":    len(result.Rows),
		"requestId":   req.RequestID,
	})

	columns := make([]Column, len(result.Columns))
	for i, col := range result.Columns {
		columns[i] = Column{Name: col.Name, Type: col.Type}
	}

	return Response{
		Columns: columns,
		Rows:    result.Rows,
		Meta: Meta{
			NormalizedParams: normalized,
			Warnings:         []string{},
			CacheKey:         cacheKey,
			Cached:           false,
			DurationMs:       duration.Milliseconds(),
		},
		RequestID: req.RequestID,
	}, nil
}

// NormalizeParams returns a copy of params with surrounding whitespace
// stripped from values. Keys pass through untouched; they already matched
// the allowlist verbatim.
func NormalizeParams(params map[string]string) map[string]string {
	normalized := make(map[string]string, len(params))
	for key, value := range params {
		normalized[key] = strings.TrimSpace(value)
	}
	return normalized
}

// CacheKey derives a stable key from the endpoint and normalized
// parameters: identical inputs always hash to the identical key. Advisory
// for now; a future caching layer relies on this determinism.
func CacheKey(endpointID string, normalized map[string]string) string {
	keys := make([]string, 0, len(normalized))
	for key := range normalized {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Length-prefixed framing keeps the digest unambiguous regardless of
	// delimiter bytes inside keys or values.
	h := sha256.New()
	fmt.Fprintf(h, "%d:%s", len(endpointID), endpointID)
	for _, key := range keys {
		value := normalized[key]
		fmt.Fprintf(h, "%d:%s%d:%s", len(key), key, len(value), value)
	}
	return "q:" + hex.EncodeToString(h.Sum(nil))
}
