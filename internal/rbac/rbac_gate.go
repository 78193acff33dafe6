package rbac

// Authorize reports whether principalRoles and required share at least one
// role. Matching is exact: no role implies another unless a stage lists both.
func Authorize(principalRoles []string, required []string) bool {
	if len(principalRoles) == 0 || len(required) == 0 {
		return false
	}
	held := make(map[string]struct{}, len(principalRoles))
	for _, r := range principalRoles {
		held[r] = struct{}{}
	}
	for _, r := range required {
		if _, ok := held[r]; ok {
			return true
		}
	}
	return false
}
