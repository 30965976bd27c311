package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odo-hq/expensys/internal/domain"
)

func restoring() domain.Session {
	return domain.Session{Phase: domain.SessionRestoring}
}

func unauthenticated() domain.Session {
	return domain.Session{Phase: domain.SessionUnauthenticated}
}

func authenticated(role domain.Role) domain.Session {
	return domain.Session{Phase: domain.SessionAuthenticated, Subject: "someone", Role: role}
}

func TestAuthorizeHoldsWhileRestoring(t *testing.T) {
	// While restoration is pending nothing may render, not even public
	// routes: the verdict would be recomputed the moment the phase settles.
	for _, route := range routes {
		decision := Authorize(route.Path, restoring())
		assert.Equal(t, OutcomeHold, decision.Outcome, "path %s", route.Path)
	}
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	tests := []struct {
		path string
		want Decision
	}{
		{LoginPath, Decision{Outcome: OutcomeAllow}},
		{SignupPath, Decision{Outcome: OutcomeAllow}},
		{HomePath, Decision{Outcome: OutcomeRedirect, Target: LoginPath}},
		{"/employee/dashboard", Decision{Outcome: OutcomeRedirect, Target: LoginPath}},
		{"/manager/dashboard", Decision{Outcome: OutcomeRedirect, Target: LoginPath}},
		{"/nonexistent", Decision{Outcome: OutcomeRedirect, Target: LoginPath}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Authorize(tc.path, unauthenticated()), "path %s", tc.path)
	}
}

func TestAuthorizeEnforcesRoleHierarchy(t *testing.T) {
	tests := []struct {
		role domain.Role
		path string
		want Decision
	}{
		{domain.RoleEmployee, "/employee/dashboard", Decision{Outcome: OutcomeAllow}},
		{domain.RoleEmployee, "/manager/dashboard", Decision{Outcome: OutcomeRedirect, Target: "/employee/dashboard"}},
		{domain.RoleEmployee, "/admin/users", Decision{Outcome: OutcomeRedirect, Target: "/employee/dashboard"}},
		{domain.RoleManager, "/manager/dashboard", Decision{Outcome: OutcomeAllow}},
		{domain.RoleManager, "/employee/history", Decision{Outcome: OutcomeAllow}},
		{domain.RoleManager, "/admin/dashboard", Decision{Outcome: OutcomeRedirect, Target: "/manager/dashboard"}},
		{domain.RoleAdmin, "/admin/users", Decision{Outcome: OutcomeAllow}},
		{domain.RoleAdmin, "/employee/submit", Decision{Outcome: OutcomeAllow}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, Authorize(tc.path, authenticated(tc.role)), "%s requesting %s", tc.role, tc.path)
	}
}

func TestAuthorizeRedirectsHomeToRoleDefault(t *testing.T) {
	assert.Equal(t, Decision{Outcome: OutcomeRedirect, Target: "/admin/dashboard"},
		Authorize(HomePath, authenticated(domain.RoleAdmin)))
	assert.Equal(t, Decision{Outcome: OutcomeRedirect, Target: "/manager/dashboard"},
		Authorize(HomePath, authenticated(domain.RoleManager)))
	assert.Equal(t, Decision{Outcome: OutcomeRedirect, Target: "/employee/dashboard"},
		Authorize(HomePath, authenticated(domain.RoleEmployee)))
}

func TestAuthorizeUnknownPathWhileAuthenticated(t *testing.T) {
	decision := Authorize("/does/not/exist", authenticated(domain.RoleManager))
	assert.Equal(t, Decision{Outcome: OutcomeRedirect, Target: "/manager/dashboard"}, decision)
}
