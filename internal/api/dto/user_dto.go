package dto

import "github.com/odo-hq/expensys/internal/domain"

// UserResponse is the backend's public view of a user.
type UserResponse struct {
	ID        string  `json:"_id"`
	CompanyID string  `json:"company_id"`
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Role      string  `json:"role"`
	ManagerID *string `json:"manager_id,omitempty"`
	IsActive  bool    `json:"is_active"`
}

// ToDomain maps the wire shape onto the domain model.
func (r UserResponse) ToDomain() domain.User {
	role, _ := domain.ParseRole(r.Role)
	return domain.User{
		ID:        r.ID,
		CompanyID: r.CompanyID,
		FullName:  r.FullName,
		Email:     r.Email,
		Username:  r.Username,
		Role:      role,
		ManagerID: r.ManagerID,
		IsActive:  r.IsActive,
	}
}

// UserCreateRequest payload for admin user creation.
type UserCreateRequest struct {
	FullName  string  `json:"full_name"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
	ManagerID *string `json:"manager_id,omitempty"`
}

// UserUpdateRequest payload for partial user updates; only set fields are
// sent.
type UserUpdateRequest struct {
	Email     *string `json:"email,omitempty"`
	FullName  *string `json:"full_name,omitempty"`
	Role      *string `json:"role,omitempty"`
	ManagerID *string `json:"manager_id,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}
