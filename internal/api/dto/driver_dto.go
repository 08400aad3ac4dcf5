package dto

import (
	"time"

	"github.com/fleet-kit/maintenance-service/internal/domain"
)

// RegisterDriverRequest is the signup payload.
type RegisterDriverRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Password   string `json:"password"`
	Experience string `json:"experience,omitempty"`
}

// LoginRequest is shared by driver and staff login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PasswordResetRequest starts a reset flow.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirm consumes a reset token.
type PasswordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ChangePasswordRequest replaces the current password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// DriverResponse is the serialized driver profile.
type DriverResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Experience string    `json:"experience"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuthResponse carries a signed token and the authenticated profile.
type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Driver    *DriverResponse `json:"driver,omitempty"`
	Staff     *StaffResponse  `json:"staff,omitempty"`
}

// FromDriver maps the domain driver.
func FromDriver(driver *domain.Driver) *DriverResponse {
	if driver == nil {
		return nil
	}
	return &DriverResponse{
		ID:         driver.ID,
		Name:       driver.Name,
		Email:      driver.Email,
		Phone:      driver.Phone,
		Experience: string(driver.Experience),
		Status:     string(driver.Status),
		CreatedAt:  driver.CreatedAt,
	}
}
