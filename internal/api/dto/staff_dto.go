package dto

import (
	"time"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

// StaffResponse is the serialized staff profile.
type StaffResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateStaffRequest provisions a staff account (admin only).
type CreateStaffRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// FromStaff maps the domain staff member.
func FromStaff(staff *domain.StaffMember) *StaffResponse {
	if staff == nil {
		return nil
	}
	return &StaffResponse{
		ID:        staff.ID,
		Name:      staff.Name,
		Email:     staff.Email,
		Phone:     staff.Phone,
		Role:      string(staff.Role),
		Active:    staff.Active,
		CreatedAt: staff.CreatedAt,
	}
}
