package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fleet-kit/maintenance-service/internal/api/dto"
	"github.com/fleet-kit/maintenance-service/internal/auth"
	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/service"
	apperrors "github.com/fleet-kit/maintenance-service/pkg/util"
)

// DriversHandler manages driver account endpoints.
type DriversHandler struct {
	authService *service.AuthService
}

// NewDriversHandler constructs handler.
func NewDriversHandler(authService *service.AuthService) *DriversHandler {
	return &DriversHandler{authService: authService}
}

// Register POST /auth/drivers/register.
func (h *DriversHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterDriverRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.authService.RegisterDriver(c.Context(), service.RegisterDriverInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Password:   req.Password,
		Experience: domain.DriverExperience(strings.ToUpper(req.Experience)),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": authResponse(result)})
}

// Login POST /auth/drivers/login.
func (h *DriversHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.authService.LoginDriver(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(result)})
}

// Me GET /drivers/me.
func (h *DriversHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Driver == nil {
		return apperrors.NewUnauthorized("driver required")
	}
	return c.JSON(fiber.Map{"data": dto.FromDriver(principal.Driver)})
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Driver:    dto.FromDriver(result.Driver),
		Staff:     dto.FromStaff(result.Staff),
	}
}
