package query

import "fmt"

// ErrorCode classifies terminal query failures.
type ErrorCode string

const (
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeDaemonError      ErrorCode = "DAEMON_ERROR"
)

// Error is the tagged failure result of a query operation. All four kinds
// in the taxonomy are terminal; none are retried inside the core. RequestID
// is always populated so callers can correlate logs ("unknown" when the
// inbound payload could not be parsed).
type Error struct {
	Status    int       `json:"status"`
	Code      ErrorCode `json:"errorCode"`
	Message   string    `json:"message"`
	RequestID string    `json:"requestId"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func forbidden(requestID, message string) *Error {
	return &Error{Status: 403, Code: CodeForbidden, Message: message, RequestID: orUnknown(requestID)}
}

func validationFailed(requestID, message string) *Error {
	return &Error{Status: 400, Code: CodeValidationFailed, Message: message, RequestID: orUnknown(requestID)}
}

func daemonError(requestID, message string) *Error {
	return &Error{Status: 500, Code: CodeDaemonError, Message: message, RequestID: orUnknown(requestID)}
}

func orUnknown(requestID string) string {
	if requestID == "" {
		return "unknown"
	}
	return requestID
}

// ClientContext identifies the dashboard surface issuing a query. Optional,
// audit-only.
type ClientContext struct {
	DashboardID string `json:"dashboardId,omitempty"`
	WidgetID    string `json:"widgetId,omitempty"`
	Purpose     string `json:"purpose,omitempty"`
}

// Request is the normalized inbound query envelope. Constructed at the API
// boundary, passed through validation and execution, audit-logged but never
// persisted.
type Request struct {
	WorkspaceID string            `json:"workspaceId"`
	EndpointID  string            `json:"endpointId"`
	Params      map[string]string `json:"params"`
	RequestID   string            `json:"requestId"`
	Client      ClientContext     `json:"clientContext"`
}

// Column describes one result column.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Meta carries execution metadata alongside the tabular payload. CacheKey
// is advisory: deterministic for identical inputs, but nothing is served
// from a cache yet, so Cached is always false.
type Meta struct {
	NormalizedParams map[string]string `json:"normalizedParams"`
	Warnings         []string          `json:"warnings"`
	CacheKey         string            `json:"cacheKey"`
	Cached           bool              `json:"cached"`
	DurationMs       int64             `json:"durationMs"`
}

// Response is the successful query envelope returned to callers.
type Response struct {
	Columns   []Column `json:"columns"`
	Rows      [][]any  `json:"rows"`
	Meta      Meta     `json:"meta"`
	RequestID string   `json:"requestId"`
}
