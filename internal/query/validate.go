package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"vantage.org/internal/auth"
	"vantage.org/internal/policy"
)

// Verdict is the successful outcome of validation: the effective parameter
// allowlist plus the resolved endpoint the engine will execute against.
type Verdict struct {
	AllowedParams []string
	Endpoint      policy.Endpoint
	Role          policy.Role
}

// Validator authorizes a query request against the caller's policy view and
// checks its parameters against the dataset allowlist. State-free; the same
// (auth, request) pair yields the same verdict for an unchanged catalog.
type Validator struct {
	catalog policy.Catalog
}

// NewValidator constructs a Validator over the injected catalog.
func NewValidator(catalog policy.Catalog) (*Validator, error) {
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	return &Validator{catalog: catalog}, nil
}

// Validate runs the single-pass authorization and allowlist check.
// Workspace and endpoint misses both collapse into FORBIDDEN so callers
// cannot probe catalog existence. The first offending parameter in sorted
// key order is reported; violations are not aggregated.
func (v *Validator) Validate(ctx context.Context, ac auth.AuthContext, req Request) (Verdict, *Error) {
	if strings.TrimSpace(req.RequestID) == "" {
		return Verdict{}, validationFailed("", "requestId is required")
	}

	bundles, err := policy.BuildPolicyView(ctx, ac, v.catalog)
	if err != nil {
		return Verdict{}, daemonError(req.RequestID, fmt.Sprintf("policy catalog unavailable: %v", err))
	}

	bundle, ok := policy.FindBundle(bundles, req.WorkspaceID)
	if !ok {
		return Verdict{}, forbidden(req.RequestID, "Workspace access denied")
	}

	var endpoint policy.Endpoint
	found := false
	for _, candidate := range bundle.Endpoints {
		if candidate.ID == req.EndpointID {
			endpoint = candidate
			found = true
			break
		}
	}
	if !found {
		return Verdict{}, forbidden(req.RequestID, "Endpoint access denied")
	}

	datasetIDs := make(map[string]struct{})
	for _, metric := range bundle.Metrics {
		if metric.EndpointID == endpoint.ID {
			datasetIDs[metric.DatasetID] = struct{}{}
		}
	}

	// Union of allowlists in dataset order, within each dataset in its
	// configured parameter order.
	var allowed []string
	allowedSet := make(map[string]struct{})
	for _, dataset := range bundle.Datasets {
		if _, ok := datasetIDs[dataset.ID]; !ok {
			continue
		}
		for _, param := range dataset.AllowedParams {
			if _, ok := allowedSet[param]; ok {
				continue
			}
			allowedSet[param] = struct{}{}
			allowed = append(allowed, param)
		}
	}

	keys := make([]string, 0, len(req.Params))
	for key := range req.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, ok := allowedSet[key]; !ok {
			return Verdict{}, validationFailed(req.RequestID, fmt.Sprintf("param_name '%s' is not allowed", key))
		}
	}

	return Verdict{AllowedParams: allowed, Endpoint: endpoint, Role: bundle.Role}, nil
}
