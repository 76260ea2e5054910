package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Remote talks JSON over HTTP to a real query daemon. The request deadline
// comes from ctx; the embedded client timeout is only a backstop.
type Remote struct {
	baseURL string
	client  *http.Client
}

var _ Executor = (*Remote)(nil)

// NewRemote creates a client for the daemon at baseURL.
func NewRemote(baseURL string) (*Remote, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("daemon: base URL is required")
	}
	return &Remote{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}, nil
}

type remoteError struct {
	Message string `json:"message"`
}

func (r *Remote) Execute(ctx context.Context, req Request) (Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("daemon: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("daemon: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var remoteErr remoteError
		if err := json.Unmarshal(payload, &remoteErr); err == nil && remoteErr.Message != "" {
			return Result{}, fmt.Errorf("daemon: %s", remoteErr.Message)
		}
		return Result{}, fmt.Errorf("daemon: unexpected status %d", resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("daemon: decode response: %w", err)
	}
	return result, nil
}
