package types

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// User is the acting dashboard user as resolved by the auth middleware.
type User struct {
	ID    uuid.UUID
	Email string
	Role  Role
}

func (u User) CanImport() bool {
	return u.Role == RoleAdmin || u.Role == RoleOperator
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NavigationItem describes a sidebar entry rendered by the dashboard shell.
type NavigationItem struct {
	Name     string
	Href     string
	Children []NavigationItem
}
