package policy

import (
	"context"
	"fmt"

	"vantage.org/internal/auth"
)

// PolicyBundle is the resolved per-workspace view for one caller: the
// highest-priority role their groups grant plus the catalog visible through
// that workspace. Computed fresh on every request so binding changes take
// effect immediately.
type PolicyBundle struct {
	WorkspaceID string
	Name        string
	Role        Role
	Policy      WorkspacePolicy
	Standards   Standards
	Datasets    []Dataset
	Metrics     []Metric
	Endpoints   []Endpoint
}

// BuildPolicyView computes the caller's accessible workspaces in catalog
// order. A workspace with no binding matching any caller group is excluded
// entirely; when several bindings match, the highest-priority role wins. An
// empty result is a valid zero-access outcome, not an error.
//
// Each bundle carries the catalog's datasets, metrics, and endpoints
// verbatim rather than scoped to the workspace, matching the platform's
// current policy payload.
func BuildPolicyView(ctx context.Context, ac auth.AuthContext, catalog Catalog) ([]PolicyBundle, error) {
	workspaces, err := catalog.ListWorkspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}

	var (
		bundles        []PolicyBundle
		datasets       []Dataset
		metrics        []Metric
		endpoints      []Endpoint
		catalogFetched bool
	)
	for _, ws := range workspaces {
		bindings, err := catalog.ListRoleBindings(ctx, ws.ID)
		if err != nil {
			return nil, fmt.Errorf("list role bindings for %s: %w", ws.ID, err)
		}
		role := RoleUnknown
		for _, binding := range bindings {
			if !ac.HasGroup(binding.Group) {
				continue
			}
			if binding.Role.Outranks(role) {
				role = binding.Role
			}
		}
		if role == RoleUnknown {
			continue
		}
		if !catalogFetched {
			if datasets, err = catalog.ListDatasets(ctx); err != nil {
				return nil, fmt.Errorf("list datasets: %w", err)
			}
			if metrics, err = catalog.ListMetrics(ctx); err != nil {
				return nil, fmt.Errorf("list metrics: %w", err)
			}
			if endpoints, err = catalog.ListEndpoints(ctx); err != nil {
				return nil, fmt.Errorf("list endpoints: %w", err)
			}
			catalogFetched = true
		}
		bundles = append(bundles, PolicyBundle{
			WorkspaceID: ws.ID,
			Name:        ws.Name,
			Role:        role,
			Policy:      ws.Policy,
			Standards:   ws.Standards,
			Datasets:    datasets,
			Metrics:     metrics,
			Endpoints:   endpoints,
		})
	}
	return bundles, nil
}

// FindBundle returns the bundle for the given workspace id, if the caller
// can see it.
func FindBundle(bundles []PolicyBundle, workspaceID string) (PolicyBundle, bool) {
	for _, bundle := range bundles {
		if bundle.WorkspaceID == workspaceID {
			return bundle, true
		}
	}
	return PolicyBundle{}, false
}
