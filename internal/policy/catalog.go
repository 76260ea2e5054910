package policy

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("policy: not found")
	ErrInvalidInput = errors.New("policy: invalid input")
)

// Catalog is the read-only policy catalog consulted on every request. It is
// injected wherever the core needs it so resolvers stay testable against
// fixture data; administrative writes happen through separate paths and may
// race with in-flight reads, which the core accepts.
type Catalog interface {
	ListWorkspaces(ctx context.Context) ([]Workspace, error)
	ListRoleBindings(ctx context.Context, workspaceID string) ([]RoleBinding, error)
	ListDatasets(ctx context.Context) ([]Dataset, error)
	ListMetrics(ctx context.Context) ([]Metric, error)
	ListEndpoints(ctx context.Context) ([]Endpoint, error)
}
