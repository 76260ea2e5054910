package query

import (
	"context"
	"testing"

	"vantage.org/internal/auth"
	"vantage.org/internal/policy"
)

func viewerAuth() auth.AuthContext {
	return auth.AuthContext{User: "DOMAIN\\alice", Groups: []string{"BI-Viewers"}}
}

func salesRequest(params map[string]string) Request {
	return Request{
		WorkspaceID: "ws_default",
		EndpointID:  "ep_sales_summary",
		Params:      params,
		RequestID:   "req-1",
	}
}

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(policy.NewDefaultCatalog())
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	return v
}

func TestValidateAllowsAllowlistedParams(t *testing.T) {
	v := newTestValidator(t)

	verdict, qerr := v.Validate(context.Background(), viewerAuth(), salesRequest(map[string]string{"region": "US"}))
	if qerr != nil {
		t.Fatalf("Validate: %v", qerr)
	}
	want := []string{"date_from", "date_to", "region"}
	if len(verdict.AllowedParams) != len(want) {
		t.Fatalf("allowed params %v, want %v", verdict.AllowedParams, want)
	}
	for i, param := range want {
		if verdict.AllowedParams[i] != param {
			t.Fatalf("allowed params %v, want %v", verdict.AllowedParams, want)
		}
	}
	if verdict.Endpoint.Name != "sp_sales_summary" {
		t.Fatalf("unexpected endpoint: %+v", verdict.Endpoint)
	}
	if verdict.Role != policy.RoleDataViewer {
		t.Fatalf("unexpected role: %v", verdict.Role)
	}
}

func TestValidateAllowlistCompleteness(t *testing.T) {
	v := newTestValidator(t)

	for _, param := range []string{"date_from", "date_to", "region"} {
		if _, qerr := v.Validate(context.Background(), viewerAuth(), salesRequest(map[string]string{param: "x"})); qerr != nil {
			t.Fatalf("param %q should be allowed, got %v", param, qerr)
		}
	}
}

func TestValidateRejectsUnknownParam(t *testing.T) {
	v := newTestValidator(t)

	_, qerr := v.Validate(context.Background(), viewerAuth(), salesRequest(map[string]string{"unknown_param": "x"}))
	if qerr == nil {
		t.Fatal("expected validation error")
	}
	if qerr.Status != 400 || qerr.Code != CodeValidationFailed {
		t.Fatalf("unexpected error: %+v", qerr)
	}
	if qerr.Message != "param_name 'unknown_param' is not allowed" {
		t.Fatalf("unexpected message: %q", qerr.Message)
	}
	if qerr.RequestID != "req-1" {
		t.Fatalf("unexpected request id: %q", qerr.RequestID)
	}
}

func TestValidateFailsFastOnFirstBadParamInSortedOrder(t *testing.T) {
	v := newTestValidator(t)

	// Two offenders; "aaa_bad" sorts before "zzz_bad" and must be the one
	// reported regardless of map iteration order.
	params := map[string]string{"region": "US", "zzz_bad": "2", "aaa_bad": "1"}
	for i := 0; i < 20; i++ {
		_, qerr := v.Validate(context.Background(), viewerAuth(), salesRequest(params))
		if qerr == nil {
			t.Fatal("expected validation error")
		}
		if qerr.Message != "param_name 'aaa_bad' is not allowed" {
			t.Fatalf("iteration %d: unexpected message %q", i, qerr.Message)
		}
	}
}

func TestValidateForbiddenWorkspace(t *testing.T) {
	v := newTestValidator(t)

	req := salesRequest(nil)
	_, qerr := v.Validate(context.Background(), auth.AuthContext{User: "u", Groups: []string{"Nobody"}}, req)
	if qerr == nil {
		t.Fatal("expected forbidden error")
	}
	if qerr.Status != 403 || qerr.Code != CodeForbidden {
		t.Fatalf("unexpected error: %+v", qerr)
	}
	if qerr.Message != "Workspace access denied" {
		t.Fatalf("unexpected message: %q", qerr.Message)
	}
}

func TestValidateForbiddenEndpointCollapsesExistence(t *testing.T) {
	v := newTestValidator(t)

	// A missing endpoint and an existing-but-invisible endpoint must be
	// indistinguishable to the caller.
	req := salesRequest(nil)
	req.EndpointID = "ep_does_not_exist"
	_, qerr := v.Validate(context.Background(), viewerAuth(), req)
	if qerr == nil {
		t.Fatal("expected forbidden error")
	}
	if qerr.Status != 403 || qerr.Code != CodeForbidden || qerr.Message != "Endpoint access denied" {
		t.Fatalf("unexpected error: %+v", qerr)
	}
}

func TestValidateRequiresRequestIDBeforeCatalogWork(t *testing.T) {
	catalog := &countingCatalog{InMemoryCatalog: policy.NewDefaultCatalog()}
	v, err := NewValidator(catalog)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	req := salesRequest(nil)
	req.RequestID = "  "
	_, qerr := v.Validate(context.Background(), viewerAuth(), req)
	if qerr == nil {
		t.Fatal("expected validation error")
	}
	if qerr.Code != CodeValidationFailed || qerr.Message != "requestId is required" {
		t.Fatalf("unexpected error: %+v", qerr)
	}
	if qerr.RequestID != "unknown" {
		t.Fatalf("request id should fall back to unknown, got %q", qerr.RequestID)
	}
	if catalog.calls != 0 {
		t.Fatalf("catalog consulted %d times before requestId check", catalog.calls)
	}
}

func TestValidateDeterminism(t *testing.T) {
	v := newTestValidator(t)
	req := salesRequest(map[string]string{"region": "US", "date_from": "2026-01-01"})

	first, qerr1 := v.Validate(context.Background(), viewerAuth(), req)
	second, qerr2 := v.Validate(context.Background(), viewerAuth(), req)
	if qerr1 != nil || qerr2 != nil {
		t.Fatalf("unexpected errors: %v, %v", qerr1, qerr2)
	}
	if len(first.AllowedParams) != len(second.AllowedParams) {
		t.Fatal("verdicts differ between identical calls")
	}
	for i := range first.AllowedParams {
		if first.AllowedParams[i] != second.AllowedParams[i] {
			t.Fatal("allowlist order differs between identical calls")
		}
	}
}

func TestValidateUnionInDatasetOrder(t *testing.T) {
	catalog := policy.NewDefaultCatalog()
	// Second dataset behind the same endpoint via another metric.
	catalog.AddDataset(policy.Dataset{ID: "ds_costs", Name: "Costs", AllowedParams: []string{"cost_center", "region"}})
	catalog.AddMetric(policy.Metric{ID: "m_costs", Name: "Costs", DatasetID: "ds_costs", EndpointID: "ep_sales_summary"})

	v, err := NewValidator(catalog)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	verdict, qerr := v.Validate(context.Background(), viewerAuth(), salesRequest(map[string]string{"cost_center": "cc1"}))
	if qerr != nil {
		t.Fatalf("Validate: %v", qerr)
	}
	want := []string{"date_from", "date_to", "region", "cost_center"}
	if len(verdict.AllowedParams) != len(want) {
		t.Fatalf("allowed params %v, want %v", verdict.AllowedParams, want)
	}
	for i, param := range want {
		if verdict.AllowedParams[i] != param {
			t.Fatalf("allowed params %v, want %v", verdict.AllowedParams, want)
		}
	}
}

// countingCatalog counts read calls to prove validation short-circuits.
type countingCatalog struct {
	*policy.InMemoryCatalog
	calls int
}

func (c *countingCatalog) ListWorkspaces(ctx context.Context) ([]policy.Workspace, error) {
	c.calls++
	return c.InMemoryCatalog.ListWorkspaces(ctx)
}
