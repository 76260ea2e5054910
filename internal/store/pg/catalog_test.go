package pg

import (
	"context"

	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"vantage.org/internal/policy"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func TestListWorkspaces(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`select w\.id, w\.name`).WillReturnRows(
		sqlmock.NewRows([]string{
			"id", "name", "theme_id", "allowed_class_names",
			"expert_override", "allow_publish_by_builder", "llm_enabled",
			"max_chart_points", "max_grid_client_rows",
			"created_at", "updated_at",
		}).AddRow(
			"ws_default", "Default Workspace", "corp_default", "ok,warn,fail",
			false, true, false, 5000, 5000, now, now,
		),
	)

	workspaces, err := store.ListWorkspaces(context.Background())
	if err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if len(workspaces) != 1 {
		t.Fatalf("expected 1 workspace, got %d", len(workspaces))
	}
	ws := workspaces[0]
	if ws.ID != "ws_default" || ws.Policy.MaxChartPoints != 5000 {
		t.Fatalf("unexpected workspace: %+v", ws)
	}
	if len(ws.Standards.AllowedClassNames) != 3 || ws.Standards.AllowedClassNames[0] != "ok" {
		t.Fatalf("unexpected standards: %+v", ws.Standards)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListRoleBindingsParsesRoles(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`from workspace_role_bindings`).WithArgs("ws_default").WillReturnRows(
		sqlmock.NewRows([]string{"id", "workspace_id", "ad_group", "role", "created_at", "updated_at"}).
			AddRow("rb1", "ws_default", "BI-Viewers", "DataViewer", now, now).
			AddRow("rb2", "ws_default", "BI-Admins", "platformadmin", now, now),
	)

	bindings, err := store.ListRoleBindings(context.Background(), "ws_default")
	if err != nil {
		t.Fatalf("ListRoleBindings: %v", err)
	}
	if len(bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(bindings))
	}
	if bindings[0].Role != policy.RoleDataViewer || bindings[1].Role != policy.RolePlatformAdmin {
		t.Fatalf("roles not parsed: %+v", bindings)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListRoleBindingsRejectsUnknownRole(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`from workspace_role_bindings`).WithArgs("ws_default").WillReturnRows(
		sqlmock.NewRows([]string{"id", "workspace_id", "ad_group", "role", "created_at", "updated_at"}).
			AddRow("rb1", "ws_default", "BI-Viewers", "superuser", now, now),
	)

	if _, err := store.ListRoleBindings(context.Background(), "ws_default"); err == nil {
		t.Fatal("expected error for unknown role value")
	}
}

func TestListRoleBindingsRequiresWorkspaceID(t *testing.T) {
	store, _ := newMockStore(t)
	if _, err := store.ListRoleBindings(context.Background(), "  "); err == nil {
		t.Fatal("expected error for blank workspace id")
	}
}

func TestListDatasetsSplitsAllowedParams(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`from semantic_datasets`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "allowed_params"}).
			AddRow("ds_sales", "Sales", "date_from,date_to,region").
			AddRow("ds_empty", "Empty", nil),
	)

	datasets, err := store.ListDatasets(context.Background())
	if err != nil {
		t.Fatalf("ListDatasets: %v", err)
	}
	if len(datasets) != 2 {
		t.Fatalf("expected 2 datasets, got %d", len(datasets))
	}
	if len(datasets[0].AllowedParams) != 3 || datasets[0].AllowedParams[2] != "region" {
		t.Fatalf("allowed params not split: %+v", datasets[0])
	}
	if datasets[1].AllowedParams != nil {
		t.Fatalf("expected nil allowlist for null column, got %+v", datasets[1].AllowedParams)
	}
}

func TestListMetricsCarriesEndpointLink(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`from semantic_metrics m`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "dataset_id", "coalesce"}).
			AddRow("m_revenue", "Revenue", "ds_sales", "ep_sales_summary").
			AddRow("m_orphan", "Orphan", "ds_sales", ""),
	)

	metrics, err := store.ListMetrics(context.Background())
	if err != nil {
		t.Fatalf("ListMetrics: %v", err)
	}
	if metrics[0].EndpointID != "ep_sales_summary" {
		t.Fatalf("endpoint link missing: %+v", metrics[0])
	}
	if metrics[1].EndpointID != "" {
		t.Fatalf("orphan metric should have empty endpoint id: %+v", metrics[1])
	}
}

func TestListEndpoints(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`from semantic_metric_endpoints`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "metric_id", "name", "timeout_ms", "max_rows", "max_items"}).
			AddRow("ep_sales_summary", "m_revenue", "sp_sales_summary", 30000, 10000, 200),
	)

	endpoints, err := store.ListEndpoints(context.Background())
	if err != nil {
		t.Fatalf("ListEndpoints: %v", err)
	}
	if len(endpoints) != 1 || endpoints[0].TimeoutMs != 30000 {
		t.Fatalf("unexpected endpoints: %+v", endpoints)
	}
}

func TestListParameterMaps(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`from sp_parameter_maps`).WithArgs("ep_sales_summary").WillReturnRows(
		sqlmock.NewRows([]string{"id", "endpoint_id", "param_name", "target_param", "transform", "max_items", "regex"}).
			AddRow("pm1", "ep_sales_summary", "region", "@Region", "upper", 10, "^[A-Z]{2}$"),
	)

	maps, err := store.ListParameterMaps(context.Background(), "ep_sales_summary")
	if err != nil {
		t.Fatalf("ListParameterMaps: %v", err)
	}
	if len(maps) != 1 || maps[0].TargetParam != "@Region" {
		t.Fatalf("unexpected maps: %+v", maps)
	}
}

func TestRecordInsertsAuditRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`insert into audit_log`).
		WithArgs(sqlmock.AnyArg(), "QUERY_EXECUTE", "DOMAIN\\alice", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Record(context.Background(), "QUERY_EXECUTE", map[string]any{
		"user":        "DOMAIN\\alice",
		"workspaceId": "ws_default",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
