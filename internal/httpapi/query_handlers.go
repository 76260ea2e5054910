package httpapi

import (
	"net/http"
	"time"

	"vantage.org/internal/auth"
	"vantage.org/internal/query"
	"vantage.org/internal/stream"
)

type executeQueryRequest struct {
	WorkspaceID string            `json:"workspaceId"`
	EndpointID  string            `json:"endpointId"`
	Params      map[string]string `json:"params"`
	RequestID   string            `json:"requestId"`
	Client      clientContext     `json:"clientContext"`
}

type clientContext struct {
	DashboardID string `json:"dashboardId"`
	WidgetID    string `json:"widgetId"`
	Purpose     string `json:"purpose"`
}

func (a *API) handleQueryExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	ac, ok := auth.AuthFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Missing authentication headers")
		return
	}

	var body executeQueryRequest
	if err := decodeJSON(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, &query.Error{
			Status:    http.StatusBadRequest,
			Code:      query.CodeValidationFailed,
			Message:   err.Error(),
			RequestID: "unknown",
		})
		return
	}

	resp, qerr := a.engine.Execute(r.Context(), ac, query.Request{
		WorkspaceID: body.WorkspaceID,
		EndpointID:  body.EndpointID,
		Params:      body.Params,
		RequestID:   body.RequestID,
		Client: query.ClientContext{
			DashboardID: body.Client.DashboardID,
			WidgetID:    body.Client.WidgetID,
			Purpose:     body.Client.Purpose,
		},
	})
	if qerr != nil {
		a.publishQueryEvent(ac.User, body, "error", 0, 0)
		writeJSON(w, qerr.Status, qerr)
		return
	}
	a.publishQueryEvent(ac.User, body, "ok", resp.Meta.DurationMs, len(resp.Rows))
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) publishQueryEvent(user string, body executeQueryRequest, status string, durationMs int64, rows int) {
	if a.stream == nil {
		return
	}
	a.stream.Publish(stream.QueryEvent{
		WorkspaceID: body.WorkspaceID,
		EndpointID:  body.EndpointID,
		User:        user,
		Status:      status,
		DurationMs:  durationMs,
		RowCount:    rows,
		Timestamp:   time.Now().UTC(),
	})
}
