package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vantage.org/internal/stream"
)

func TestQueryEventsStream(t *testing.T) {
	api := newTestAPI(t)
	s := stream.New()
	api.SetStream(s)

	ctx, cancel := context.WithCancel(context.Background())
	req := authedRequest(http.MethodGet, "/v1/events/queries", "").WithContext(ctx)
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		api.Handler().ServeHTTP(rr, req)
		close(done)
	}()

	// give the subscriber a moment to register, then emit
	time.Sleep(100 * time.Millisecond)
	s.Publish(stream.QueryEvent{WorkspaceID: "ws_default", Status: "ok"})
	time.Sleep(100 * time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not stop after context cancel")
	}

	body := rr.Body.String()
	if !strings.Contains(body, ": stream started") {
		t.Fatalf("missing stream preamble: %q", body)
	}
	if !strings.Contains(body, `"workspaceId":"ws_default"`) {
		t.Fatalf("missing event payload: %q", body)
	}
}

func TestQueryEventsStreamDisabled(t *testing.T) {
	api := newTestAPI(t)

	rr := httptest.NewRecorder()
	api.Handler().ServeHTTP(rr, authedRequest(http.MethodGet, "/v1/events/queries", ""))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}
