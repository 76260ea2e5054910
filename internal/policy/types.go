package policy

import "time"

// Workspace is the tenant-scoped container for datasets, dashboards, and
// policy.
type Workspace struct {
	ID        string
	Name      string
	Policy    WorkspacePolicy
	Standards Standards
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkspacePolicy carries workspace-scoped operational limits and feature
// flags. Exactly one policy exists per workspace.
type WorkspacePolicy struct {
	ExpertOverride        bool `json:"expertOverride"`
	AllowPublishByBuilder bool `json:"allowPublishByBuilder"`
	LLMEnabled            bool `json:"llmEnabled"`
	MaxChartPoints        int  `json:"maxChartPoints"`
	MaxGridClientRows     int  `json:"maxGridClientRows"`
}

// Standards is the presentation contract shipped with every policy bundle.
type Standards struct {
	AllowedClassNames []string `json:"allowedClassNames"`
	ThemeID           string   `json:"themeId"`
}

// RoleBinding links an external directory group to a role within one
// workspace. Administered outside the core; the core only reads.
type RoleBinding struct {
	ID          string
	WorkspaceID string
	Group       string
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Dataset names the authoritative parameter allowlist shared by the metrics
// built on it. AllowedParams keeps its configured order.
type Dataset struct {
	ID            string
	Name          string
	AllowedParams []string
}

// Metric is a named measure backed by exactly one dataset. EndpointID is
// the derived link to the metric's callable endpoint, empty when none is
// configured.
type Metric struct {
	ID         string
	Name       string
	DatasetID  string
	EndpointID string
}

// Endpoint is the callable unit a query targets. Name identifies an
// external stored-procedure-like resource and is opaque to the core;
// TimeoutMs, MaxRows, and MaxItems are advisory limits passed down to the
// executor.
type Endpoint struct {
	ID        string
	MetricID  string
	Name      string
	TimeoutMs int
	MaxRows   int
	MaxItems  int
}

// ParameterMap declares per-endpoint parameter shaping for the external
// executor. Administered and consumed outside the core; validation works
// off Dataset.AllowedParams only.
type ParameterMap struct {
	ID          string
	EndpointID  string
	ParamName   string
	TargetParam string
	Transform   string
	MaxItems    int
	Regex       string
}
