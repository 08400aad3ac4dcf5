package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fleet-kit/maintenance-service/internal/api/dto"
	"github.com/fleet-kit/maintenance-service/internal/auth"
	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/repository"
	"github.com/fleet-kit/maintenance-service/internal/service"
	apperrors "github.com/fleet-kit/maintenance-service/pkg/util"
)

// StaffHandler manages staff authentication and password flows.
type StaffHandler struct {
	authService *service.AuthService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService) *StaffHandler {
	return &StaffHandler{authService: authService}
}

// Login POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.authService.LoginStaff(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(result)})
}

// RequestPasswordReset POST /auth/password/reset/request. The subject type
// comes from the query so drivers and staff share the flow.
func (h *StaffHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	subjectType := domain.SubjectTypeStaff
	if c.Query("subject") == "driver" {
		subjectType = domain.SubjectTypeDriver
	}
	token, err := h.authService.RequestPasswordReset(c.Context(), subjectType, req.Email)
	if err != nil {
		return err
	}
	// token echoed back for delivery by an out-of-band channel
	return c.JSON(fiber.Map{"data": fiber.Map{"reset_token": token}})
}

// ConfirmPasswordReset POST /auth/password/reset/confirm.
func (h *StaffHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.authService.ResetPassword(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reset": true}})
}

// ChangePassword POST /auth/password/change.
func (h *StaffHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var subjectID string
	switch {
	case principal.Driver != nil:
		subjectID = principal.Driver.ID
	case principal.Staff != nil:
		subjectID = principal.Staff.ID
	default:
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.authService.ChangePassword(c.Context(), principal.SubjectType, subjectID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}

// Me GET /staff/me.
func (h *StaffHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthorized("staff required")
	}
	return c.JSON(fiber.Map{"data": dto.FromStaff(principal.Staff)})
}

// CreateMember POST /staff/members.
func (h *StaffHandler) CreateMember(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	staff, err := h.authService.CreateStaff(c.Context(), service.CreateStaffInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     domain.StaffRole(strings.ToUpper(req.Role)),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromStaff(staff)})
}

// ListMembers GET /staff/members.
func (h *StaffHandler) ListMembers(c *fiber.Ctx) error {
	filter := repository.StaffFilter{}
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.StaffRole(strings.ToUpper(roleStr))
		filter.Role = &role
	}
	members, err := h.authService.ListStaff(c.Context(), filter)
	if err != nil {
		return err
	}
	out := make([]dto.StaffResponse, 0, len(members))
	for i := range members {
		out = append(out, *dto.FromStaff(&members[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}
