package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"vantage.org/internal/policy"
)

var _ policy.Catalog = (*Store)(nil)

func (s *Store) ListWorkspaces(ctx context.Context) ([]policy.Workspace, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	rows, err := s.db.QueryContext(ctx, `
		select w.id, w.name, w.theme_id, w.allowed_class_names,
		       p.expert_override, p.allow_publish_by_builder, p.llm_enabled,
		       p.max_chart_points, p.max_grid_client_rows,
		       w.created_at, w.updated_at
		from workspaces w
		join workspace_policies p on p.workspace_id = w.id
		order by w.created_at, w.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []policy.Workspace
	for rows.Next() {
		var (
			ws         policy.Workspace
			classNames string
		)
		if err := rows.Scan(
			&ws.ID, &ws.Name, &ws.Standards.ThemeID, &classNames,
			&ws.Policy.ExpertOverride, &ws.Policy.AllowPublishByBuilder, &ws.Policy.LLMEnabled,
			&ws.Policy.MaxChartPoints, &ws.Policy.MaxGridClientRows,
			&ws.CreatedAt, &ws.UpdatedAt,
		); err != nil {
			return nil, err
		}
		ws.Standards.AllowedClassNames = splitList(classNames)
		result = append(result, ws)
	}
	return result, rows.Err()
}

func (s *Store) ListRoleBindings(ctx context.Context, workspaceID string) ([]policy.RoleBinding, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	workspaceID = strings.TrimSpace(workspaceID)
	if workspaceID == "" {
		return nil, fmt.Errorf("%w: workspace_id is required", policy.ErrInvalidInput)
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, workspace_id, ad_group, role, created_at, updated_at
		from workspace_role_bindings
		where workspace_id = $1
		order by created_at, id
	`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []policy.RoleBinding
	for rows.Next() {
		var (
			binding policy.RoleBinding
			rawRole string
		)
		if err := rows.Scan(&binding.ID, &binding.WorkspaceID, &binding.Group, &rawRole, &binding.CreatedAt, &binding.UpdatedAt); err != nil {
			return nil, err
		}
		role, err := policy.ParseRole(rawRole)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", binding.ID, err)
		}
		binding.Role = role
		result = append(result, binding)
	}
	return result, rows.Err()
}

func (s *Store) ListDatasets(ctx context.Context) ([]policy.Dataset, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, name, allowed_params
		from semantic_datasets
		order by created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []policy.Dataset
	for rows.Next() {
		var (
			ds     policy.Dataset
			params sql.NullString
		)
		if err := rows.Scan(&ds.ID, &ds.Name, &params); err != nil {
			return nil, err
		}
		if params.Valid {
			ds.AllowedParams = splitList(params.String)
		}
		result = append(result, ds)
	}
	return result, rows.Err()
}

func (s *Store) ListMetrics(ctx context.Context) ([]policy.Metric, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	rows, err := s.db.QueryContext(ctx, `
		select m.id, m.name, m.dataset_id, coalesce(e.id, '')
		from semantic_metrics m
		left join semantic_metric_endpoints e on e.metric_id = m.id
		order by m.created_at, m.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []policy.Metric
	for rows.Next() {
		var m policy.Metric
		if err := rows.Scan(&m.ID, &m.Name, &m.DatasetID, &m.EndpointID); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (s *Store) ListEndpoints(ctx context.Context) ([]policy.Endpoint, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, metric_id, name, timeout_ms, max_rows, max_items
		from semantic_metric_endpoints
		order by created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []policy.Endpoint
	for rows.Next() {
		var ep policy.Endpoint
		if err := rows.Scan(&ep.ID, &ep.MetricID, &ep.Name, &ep.TimeoutMs, &ep.MaxRows, &ep.MaxItems); err != nil {
			return nil, err
		}
		result = append(result, ep)
	}
	return result, rows.Err()
}

// ListParameterMaps returns the admin-side parameter shaping rows for an
// endpoint. Not part of the Catalog contract; validation never reads these.
func (s *Store) ListParameterMaps(ctx context.Context, endpointID string) ([]policy.ParameterMap, error) {
	if s.db == nil {
		return nil, errors.New("database connection unavailable")
	}
	endpointID = strings.TrimSpace(endpointID)
	if endpointID == "" {
		return nil, fmt.Errorf("%w: endpoint_id is required", policy.ErrInvalidInput)
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, endpoint_id, param_name, target_param,
		       coalesce(transform, ''), coalesce(max_items, 0), coalesce(regex, '')
		from sp_parameter_maps
		where endpoint_id = $1
		order by created_at, id
	`, endpointID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []policy.ParameterMap
	for rows.Next() {
		var pm policy.ParameterMap
		if err := rows.Scan(&pm.ID, &pm.EndpointID, &pm.ParamName, &pm.TargetParam, &pm.Transform, &pm.MaxItems, &pm.Regex); err != nil {
			return nil, err
		}
		result = append(result, pm)
	}
	return result, rows.Err()
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
