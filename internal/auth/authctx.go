package auth

import "strings"

// AuthContext carries the caller identity and directory group memberships
// extracted from trusted request headers. It is derived per request and
// never persisted.
type AuthContext struct {
	User   string
	Groups []string
}

// ResolveContext builds an AuthContext from the raw identity value and a
// delimiter-separated group list (comma or semicolon). It trims tokens,
// drops blanks, and reports false when either input is empty after
// trimming; callers must treat that as an authentication failure.
func ResolveContext(rawUser, rawGroups string) (AuthContext, bool) {
	user := strings.TrimSpace(rawUser)
	groups := SplitGroups(rawGroups)
	if user == "" || len(groups) == 0 {
		return AuthContext{}, false
	}
	return AuthContext{User: user, Groups: groups}, true
}

// SplitGroups splits a raw group header on ',' and ';', trimming each token
// and dropping empty ones.
func SplitGroups(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';'
	})
	groups := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		groups = append(groups, part)
	}
	if len(groups) == 0 {
		return nil
	}
	return groups
}

// HasGroup reports whether the context contains the given group,
// ignoring case.
func (a AuthContext) HasGroup(group string) bool {
	for _, g := range a.Groups {
		if strings.EqualFold(g, group) {
			return true
		}
	}
	return false
}
