package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vantage.org/internal/auth"
)

func TestEmbedTokenIssue(t *testing.T) {
	auth.ResetSecretForTests()
	t.Setenv("VANTAGE_EMBED_SECRET", "embed-test-secret")
	defer auth.ResetSecretForTests()

	api := newTestAPI(t)

	rr := httptest.NewRecorder()
	api.Handler().ServeHTTP(rr, authedRequest(http.MethodPost, "/v1/embed/token", `{"dashboardId":"db_sales"}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}

	var resp embedTokenResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("empty token")
	}
	if !resp.ExpiresAt.After(time.Now()) {
		t.Fatalf("expiresAt = %v", resp.ExpiresAt)
	}

	claims, err := auth.ParseEmbedToken(resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.DashboardID != "db_sales" {
		t.Fatalf("dashboardId = %q", claims.DashboardID)
	}
	if claims.Subject != "alice" {
		t.Fatalf("subject = %q", claims.Subject)
	}
}

func TestEmbedTokenMissingDashboard(t *testing.T) {
	auth.ResetSecretForTests()
	t.Setenv("VANTAGE_EMBED_SECRET", "embed-test-secret")
	defer auth.ResetSecretForTests()

	api := newTestAPI(t)

	rr := httptest.NewRecorder()
	api.Handler().ServeHTTP(rr, authedRequest(http.MethodPost, "/v1/embed/token", `{"dashboardId":"  "}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestEmbedTokenEmptyBody(t *testing.T) {
	api := newTestAPI(t)

	rr := httptest.NewRecorder()
	api.Handler().ServeHTTP(rr, authedRequest(http.MethodPost, "/v1/embed/token", ""))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}
