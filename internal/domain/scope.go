package domain

// TenantScope is the caller's tenant visibility, derived per request from
// the identity collaborator and never persisted. It is either unrestricted
// (administrative caller) or an explicit non-empty allow-list.
type TenantScope struct {
	unrestricted bool
	allowed      []string
}

// UnrestrictedScope returns the administrative scope that sees every tenant.
func UnrestrictedScope() TenantScope {
	return TenantScope{unrestricted: true}
}

// RestrictedScope returns a scope limited to the given tenant ids.
func RestrictedScope(tenantIDs ...string) TenantScope {
	allowed := make([]string, 0, len(tenantIDs))
	for _, id := range tenantIDs {
		if id != "" {
			allowed = append(allowed, id)
		}
	}
	return TenantScope{allowed: allowed}
}

// Unrestricted reports whether the scope has administrative visibility.
func (s TenantScope) Unrestricted() bool { return s.unrestricted }

// Allowed returns the tenant ids visible to the caller. Empty for an
// unrestricted scope.
func (s TenantScope) Allowed() []string { return s.allowed }

// Empty reports whether the scope grants no visibility at all.
func (s TenantScope) Empty() bool {
	return !s.unrestricted && len(s.allowed) == 0
}

// Contains reports whether the scope permits the given tenant.
func (s TenantScope) Contains(tenantID string) bool {
	if s.unrestricted {
		return true
	}
	for _, id := range s.allowed {
		if id == tenantID {
			return true
		}
	}
	return false
}

// Narrow restricts the scope to a single requested tenant. An unrestricted
// caller may narrow to any tenant; a restricted caller may only narrow
// within its own allow-list. A tenant outside it is ignored so a request
// parameter can never widen visibility.
func (s TenantScope) Narrow(tenantID string) TenantScope {
	if tenantID == "" {
		return s
	}
	if s.unrestricted || s.Contains(tenantID) {
		return RestrictedScope(tenantID)
	}
	return s
}
