package httpapi

import (
	"net/http"

	"vantage.org/internal/auth"
	"vantage.org/internal/policy"
)

type datasetPayload struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	AllowedParams []string `json:"allowedParams"`
}

type metricPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DatasetID  string `json:"datasetId"`
	EndpointID string `json:"endpointId,omitempty"`
}

type endpointPayload struct {
	ID        string `json:"id"`
	MetricID  string `json:"metricId"`
	Name      string `json:"name"`
	TimeoutMs int    `json:"timeoutMs"`
	MaxRows   int    `json:"maxRows"`
	MaxItems  int    `json:"maxItems"`
}

type catalogPayload struct {
	Datasets  []datasetPayload  `json:"datasets"`
	Metrics   []metricPayload   `json:"metrics"`
	Endpoints []endpointPayload `json:"endpoints"`
}

type workspacePayload struct {
	WorkspaceID string                 `json:"workspaceId"`
	Name        string                 `json:"name"`
	Role        policy.Role            `json:"role"`
	Policy      policy.WorkspacePolicy `json:"policy"`
	Catalog     catalogPayload         `json:"catalog"`
	Standards   policy.Standards       `json:"standards"`
}

type mePoliciesResponse struct {
	ADUser     string             `json:"adUser"`
	ADGroups   []string           `json:"adGroups"`
	Workspaces []workspacePayload `json:"workspaces"`
}

func (a *API) handleMePolicies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}

	ac, ok := auth.AuthFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Missing authentication headers")
		return
	}

	bundles, err := policy.BuildPolicyView(r.Context(), ac, a.catalog)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "policy resolution failed")
		return
	}

	resp := mePoliciesResponse{
		ADUser:     ac.User,
		ADGroups:   ac.Groups,
		Workspaces: make([]workspacePayload, 0, len(bundles)),
	}
	if resp.ADGroups == nil {
		resp.ADGroups = []string{}
	}
	for _, b := range bundles {
		resp.Workspaces = append(resp.Workspaces, workspacePayload{
			WorkspaceID: b.WorkspaceID,
			Name:        b.Name,
			Role:        b.Role,
			Policy:      b.Policy,
			Catalog: catalogPayload{
				Datasets:  datasetPayloads(b.Datasets),
				Metrics:   metricPayloads(b.Metrics),
				Endpoints: endpointPayloads(b.Endpoints),
			},
			Standards: b.Standards,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func datasetPayloads(in []policy.Dataset) []datasetPayload {
	out := make([]datasetPayload, 0, len(in))
	for _, d := range in {
		params := d.AllowedParams
		if params == nil {
			params = []string{}
		}
		out = append(out, datasetPayload{ID: d.ID, Name: d.Name, AllowedParams: params})
	}
	return out
}

func metricPayloads(in []policy.Metric) []metricPayload {
	out := make([]metricPayload, 0, len(in))
	for _, m := range in {
		out = append(out, metricPayload{ID: m.ID, Name: m.Name, DatasetID: m.DatasetID, EndpointID: m.EndpointID})
	}
	return out
}

func endpointPayloads(in []policy.Endpoint) []endpointPayload {
	out := make([]endpointPayload, 0, len(in))
	for _, e := range in {
		out = append(out, endpointPayload{
			ID: e.ID, MetricID: e.MetricID, Name: e.Name,
			TimeoutMs: e.TimeoutMs, MaxRows: e.MaxRows, MaxItems: e.MaxItems,
		})
	}
	return out
}
