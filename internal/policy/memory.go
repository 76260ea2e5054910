package policy

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// InMemoryCatalog implements Catalog with in-process concurrency safety.
// Used by tests and when no database DSN is configured.
type InMemoryCatalog struct {
	mu         sync.RWMutex
	workspaces []Workspace
	bindings   []RoleBinding
	datasets   []Dataset
	metrics    []Metric
	endpoints  []Endpoint
	paramMaps  []ParameterMap
}

var _ Catalog = (*InMemoryCatalog)(nil)

// NewInMemoryCatalog creates an empty catalog.
func NewInMemoryCatalog() *InMemoryCatalog {
	return &InMemoryCatalog{}
}

// NewDefaultCatalog returns a catalog preloaded with the default workspace
// seed: one workspace, the BI-Viewers binding, and the sales dataset with
// its summary endpoint.
func NewDefaultCatalog() *InMemoryCatalog {
	c := NewInMemoryCatalog()
	now := time.Now().UTC()
	c.workspaces = []Workspace{
		{
			ID:   "ws_default",
			Name: "Default Workspace",
			Policy: WorkspacePolicy{
				ExpertOverride:        false,
				AllowPublishByBuilder: true,
				LLMEnabled:            false,
				MaxChartPoints:        5000,
				MaxGridClientRows:     5000,
			},
			Standards: Standards{
				AllowedClassNames: []string{"ok", "warn", "fail", "muted", "info", "accent"},
				ThemeID:           "corp_default",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	c.bindings = []RoleBinding{
		{ID: "rb_default_viewers", WorkspaceID: "ws_default", Group: "BI-Viewers", Role: RoleDataViewer, CreatedAt: now, UpdatedAt: now},
	}
	c.datasets = []Dataset{
		{ID: "ds_sales", Name: "Sales", AllowedParams: []string{"date_from", "date_to", "region"}},
	}
	c.metrics = []Metric{
		{ID: "m_revenue", Name: "Revenue", DatasetID: "ds_sales", EndpointID: "ep_sales_summary"},
	}
	c.endpoints = []Endpoint{
		{ID: "ep_sales_summary", MetricID: "m_revenue", Name: "sp_sales_summary", TimeoutMs: 30000, MaxRows: 10000, MaxItems: 200},
	}
	return c
}

func (c *InMemoryCatalog) ListWorkspaces(ctx context.Context) ([]Workspace, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Workspace, len(c.workspaces))
	copy(out, c.workspaces)
	return out, nil
}

func (c *InMemoryCatalog) ListRoleBindings(ctx context.Context, workspaceID string) ([]RoleBinding, error) {
	workspaceID = strings.TrimSpace(workspaceID)
	if workspaceID == "" {
		return nil, fmt.Errorf("%w: workspace_id is required", ErrInvalidInput)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []RoleBinding
	for _, binding := range c.bindings {
		if binding.WorkspaceID == workspaceID {
			out = append(out, binding)
		}
	}
	return out, nil
}

func (c *InMemoryCatalog) ListDatasets(ctx context.Context) ([]Dataset, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Dataset, len(c.datasets))
	copy(out, c.datasets)
	return out, nil
}

func (c *InMemoryCatalog) ListMetrics(ctx context.Context) ([]Metric, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Metric, len(c.metrics))
	copy(out, c.metrics)
	return out, nil
}

func (c *InMemoryCatalog) ListEndpoints(ctx context.Context) ([]Endpoint, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Endpoint, len(c.endpoints))
	copy(out, c.endpoints)
	return out, nil
}

// ListParameterMaps returns the admin-side parameter maps for an endpoint.
// Not part of the Catalog read contract; the validation path never consults
// these.
func (c *InMemoryCatalog) ListParameterMaps(ctx context.Context, endpointID string) ([]ParameterMap, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []ParameterMap
	for _, pm := range c.paramMaps {
		if pm.EndpointID == endpointID {
			out = append(out, pm)
		}
	}
	return out, nil
}

// The Add helpers below are the administrative write path used by tests and
// dev seeding. They append in call order, which is the order readers see.

func (c *InMemoryCatalog) AddWorkspace(ws Workspace) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.workspaces = append(c.workspaces, ws)
}

func (c *InMemoryCatalog) AddRoleBinding(binding RoleBinding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = append(c.bindings, binding)
}

func (c *InMemoryCatalog) AddDataset(ds Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets = append(c.datasets, ds)
}

func (c *InMemoryCatalog) AddMetric(m Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = append(c.metrics, m)
}

func (c *InMemoryCatalog) AddEndpoint(ep Endpoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endpoints = append(c.endpoints, ep)
}

func (c *InMemoryCatalog) AddParameterMap(pm ParameterMap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paramMaps = append(c.paramMaps, pm)
}
