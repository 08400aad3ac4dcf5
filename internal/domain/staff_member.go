package domain

import "time"

// StaffRole enumerates workshop and operations roles.
type StaffRole string

const (
	StaffRoleMechanic   StaffRole = "MECHANIC"
	StaffRoleOperations StaffRole = "OPERATIONS"
	StaffRoleAdmin      StaffRole = "ADMIN"
)

// StaffMember models a mechanic, operations coordinator or administrator.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Role         StaffRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
