package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odo-hq/expensys/internal/domain"
)

func paths(entries []domain.NavigationEntry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Path)
	}
	return out
}

func TestMenuForRespectsRoleOrdering(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleEmployee, domain.RoleManager, domain.RoleAdmin} {
		for _, entry := range MenuFor(role) {
			assert.True(t, role.AtLeast(entry.RequiredRole),
				"%s menu must not contain %s (requires %s)", role, entry.Path, entry.RequiredRole)
		}
	}
}

func TestMenuForSupersets(t *testing.T) {
	employee := paths(MenuFor(domain.RoleEmployee))
	manager := paths(MenuFor(domain.RoleManager))
	admin := paths(MenuFor(domain.RoleAdmin))

	assert.Subset(t, manager, employee, "manager menu must contain every employee entry")
	assert.Subset(t, admin, manager, "admin menu must contain every manager entry")

	assert.NotContains(t, employee, "/manager/dashboard")
	assert.NotContains(t, employee, "/admin/users")
	assert.NotContains(t, manager, "/admin/dashboard")
}

func TestMenuForOrdering(t *testing.T) {
	admin := paths(MenuFor(domain.RoleAdmin))
	require.Equal(t, []string{
		"/admin/dashboard",
		"/admin/users",
		"/manager/dashboard",
		"/employee/dashboard",
		"/employee/submit",
		"/employee/history",
	}, admin, "tier entries come before the inherited tiers, in declaration order")
}

func TestMenuForUnknownRole(t *testing.T) {
	assert.Empty(t, MenuFor(domain.Role("")))
	assert.Empty(t, MenuFor(domain.Role("superuser")))
}
