package models

// Role represents a user role (e.g., admin, cashier)
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)
