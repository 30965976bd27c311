package domain

// User is the domain model for a company member.
type User struct {
	ID        string
	CompanyID string
	FullName  string
	Email     string
	Username  string
	Role      Role
	ManagerID *string
	IsActive  bool
}
