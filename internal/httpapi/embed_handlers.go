package httpapi

import (
	"net/http"
	"strings"
	"time"

	"vantage.org/internal/auth"
)

const embedTokenTTL = time.Hour

type embedTokenRequest struct {
	DashboardID string `json:"dashboardId"`
}

type embedTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (a *API) handleEmbedToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	ac, ok := auth.AuthFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Missing authentication headers")
		return
	}

	var req embedTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	dashboardID := strings.TrimSpace(req.DashboardID)
	if dashboardID == "" {
		writeError(w, r, http.StatusBadRequest, "dashboardId is required")
		return
	}

	token, err := auth.GenerateEmbedToken(dashboardID, ac.User, embedTokenTTL)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "embed token generation failed")
		return
	}

	a.audit(r.Context(), "EMBED_TOKEN_ISSUE", map[string]any{
		"user":        ac.User,
		"dashboardId": dashboardID,
		"requestId":   RequestIDFromContext(r.Context()),
	})

	writeJSON(w, http.StatusOK, embedTokenResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(embedTokenTTL),
	})
}
