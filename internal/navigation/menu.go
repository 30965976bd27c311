package navigation

import "github.com/odo-hq/expensys/internal/domain"

// Entries each role tier contributes on top of the tier below it.
var (
	employeeEntries = []domain.NavigationEntry{
		{Path: "/employee/dashboard", Label: "Dashboard", RequiredRole: domain.RoleEmployee},
		{Path: "/employee/submit", Label: "Submit Expense", RequiredRole: domain.RoleEmployee},
		{Path: "/employee/history", Label: "My History", RequiredRole: domain.RoleEmployee},
	}

	managerOnlyEntries = []domain.NavigationEntry{
		{Path: "/manager/dashboard", Label: "Approval Queue", RequiredRole: domain.RoleManager},
	}

	adminOnlyEntries = []domain.NavigationEntry{
		{Path: "/admin/dashboard", Label: "Admin Dashboard", RequiredRole: domain.RoleAdmin},
		{Path: "/admin/users", Label: "Manage Users", RequiredRole: domain.RoleAdmin},
	}
)

// MenuFor composes the ordered navigation entries visible to a role. Each
// tier prepends its own entries to the menu of the tier below it, so the
// role-superset rule holds by construction instead of by three separately
// maintained lists. An unknown or empty role sees nothing.
func MenuFor(role domain.Role) []domain.NavigationEntry {
	switch role {
	case domain.RoleAdmin:
		return append(append([]domain.NavigationEntry{}, adminOnlyEntries...), MenuFor(domain.RoleManager)...)
	case domain.RoleManager:
		return append(append([]domain.NavigationEntry{}, managerOnlyEntries...), MenuFor(domain.RoleEmployee)...)
	case domain.RoleEmployee:
		return append([]domain.NavigationEntry{}, employeeEntries...)
	default:
		return nil
	}
}
