package models

// StaffRole is what a staff member does on the floor.
type StaffRole string

const (
	StaffRoleAdmin   StaffRole = "admin"
	StaffRoleWaiter  StaffRole = "waiter"
	StaffRoleKitchen StaffRole = "kitchen"
)

// IsValidStaffRole checks if the provided role string is a valid StaffRole.
func IsValidStaffRole(role string) bool {
	switch StaffRole(role) {
	case StaffRoleAdmin, StaffRoleWaiter, StaffRoleKitchen:
		return true
	default:
		return false
	}
}

// Staff represents an employee with a floor access code
type Staff struct {
	ID     string    `json:"id" db:"id"`
	Name   string    `json:"name" db:"name"`
	Role   StaffRole `json:"role" db:"role"`
	Code   string    `json:"code" db:"code"` // unique
	Active bool      `json:"active" db:"active"`
}
