package policy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the canonical workspace role. The ordering is total:
// PlatformAdmin outranks DataAdmin, which outranks DataViewer. Legacy
// binding rows may still carry "Viewer"/"Editor" spellings; ParseRole maps
// those onto the canonical set.
type Role int

const (
	RoleUnknown Role = iota
	RoleDataViewer
	RoleDataAdmin
	RolePlatformAdmin
)

var roleNames = map[Role]string{
	RoleDataViewer:    "DataViewer",
	RoleDataAdmin:     "DataAdmin",
	RolePlatformAdmin: "PlatformAdmin",
}

// ParseRole maps a stored role value onto the canonical enum,
// case-insensitively.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "dataviewer", "viewer":
		return RoleDataViewer, nil
	case "dataadmin", "editor":
		return RoleDataAdmin, nil
	case "platformadmin":
		return RolePlatformAdmin, nil
	default:
		return RoleUnknown, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Outranks reports whether r carries strictly more privilege than other.
func (r Role) Outranks(other Role) bool {
	return r > other
}

// MarshalJSON encodes the role under its canonical name.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts any spelling ParseRole accepts.
func (r *Role) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseRole(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
