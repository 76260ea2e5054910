package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vantage.org/internal/audit"
	"vantage.org/internal/auth"
	"vantage.org/internal/ids"
)

var _ audit.Recorder = (*Store)(nil)

// Record appends one audit event to the audit_log table. The event is also
// mirrored to the structured log so operators see it without a database
// query.
func (s *Store) Record(ctx context.Context, event string, fields map[string]any) error {
	if s.db == nil {
		return errors.New("database connection unavailable")
	}
	details, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	user := "unknown"
	if u, ok := auth.UserIDFromContext(ctx); ok {
		user = u
	} else if u, ok := fields["user"].(string); ok && u != "" {
		user = u
	}
	if _, err := s.db.ExecContext(ctx, `
		insert into audit_log (id, event, actor, details, created_at)
		values ($1, $2, $3, $4, $5)
	`, ids.New(), event, user, details, time.Now().UTC()); err != nil {
		return err
	}
	return audit.LogEvent(ctx, event, fields)
}
