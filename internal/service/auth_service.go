package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/fleet-kit/maintenance-service/internal/auth"
	"github.com/fleet-kit/maintenance-service/internal/config"
	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/repository"
	apperrors "github.com/fleet-kit/maintenance-service/pkg/util"
)

// AuthService handles registration, login and password recovery for both
// drivers and staff members.
type AuthService struct {
	drivers repository.DriverRepository
	staff   repository.StaffRepository
	resets  repository.PasswordResetRepository
	tokens  *auth.TokenManager
	cfg     config.AuthConfig
	logger  *zap.Logger
}

// AuthServiceDeps lists dependencies for the auth service.
type AuthServiceDeps struct {
	Drivers repository.DriverRepository
	Staff   repository.StaffRepository
	Resets  repository.PasswordResetRepository
	Tokens  *auth.TokenManager
	Config  config.AuthConfig
	Logger  *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthServiceDeps) *AuthService {
	return &AuthService{
		drivers: deps.Drivers,
		staff:   deps.Staff,
		resets:  deps.Resets,
		tokens:  deps.Tokens,
		cfg:     deps.Config,
		logger:  deps.Logger,
	}
}

// RegisterDriverInput is the payload for driver self-registration.
type RegisterDriverInput struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	Experience domain.DriverExperience
}

// AuthResult carries a signed token and its subject.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Driver    *domain.Driver
	Staff     *domain.StaffMember
}

// RegisterDriver creates a driver account and returns a signed token.
func (s *AuthService) RegisterDriver(ctx context.Context, input RegisterDriverInput) (*AuthResult, error) {
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}
	if input.Experience == "" {
		input.Experience = domain.ExperienceExperienced
	}

	if existing, err := s.drivers.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hashed, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	driver := &domain.Driver{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hashed,
		Experience:   input.Experience,
		Status:       domain.DriverStatusActive,
	}
	if err := s.drivers.Create(ctx, driver); err != nil {
		return nil, apperrors.MapError(err)
	}

	token, expiresAt, err := s.tokens.GenerateToken(driver.ID, domain.SubjectTypeDriver, nil)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("driver registered", zap.String("driver_id", driver.ID))
	return &AuthResult{Token: token, ExpiresAt: expiresAt, Driver: driver}, nil
}

// LoginDriver authenticates a driver by email and password.
func (s *AuthService) LoginDriver(ctx context.Context, email, password string) (*AuthResult, error) {
	driver, err := s.drivers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if driver.Status != domain.DriverStatusActive {
		return nil, apperrors.NewForbidden("account suspended")
	}
	if err := auth.ComparePassword(driver.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(driver.ID, domain.SubjectTypeDriver, nil)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, Driver: driver}, nil
}

// LoginStaff authenticates a staff member by email and password.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*AuthResult, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !staff.Active {
		return nil, apperrors.NewForbidden("account deactivated")
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	role := staff.Role
	token, expiresAt, err := s.tokens.GenerateToken(staff.ID, domain.SubjectTypeStaff, &role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, Staff: staff}, nil
}

// CreateStaffInput is the payload for admin staff provisioning.
type CreateStaffInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     domain.StaffRole
}

// CreateStaff provisions a staff account. Admin only; enforced at the route.
func (s *AuthService) CreateStaff(ctx context.Context, input CreateStaffInput) (*domain.StaffMember, error) {
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}
	switch input.Role {
	case domain.StaffRoleMechanic, domain.StaffRoleOperations, domain.StaffRoleAdmin:
	default:
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}

	if existing, err := s.staff.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hashed, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	staff := &domain.StaffMember{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hashed,
		Role:         input.Role,
		Active:       true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("staff member created", zap.String("staff_id", staff.ID), zap.String("role", string(staff.Role)))
	return staff, nil
}

// ListStaff returns staff members matching the filter.
func (s *AuthService) ListStaff(ctx context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	members, err := s.staff.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return members, nil
}

// RequestPasswordReset issues a one-time reset token for the given email. The
// token is returned to the caller for delivery; unknown emails yield no error
// so account existence is not leaked.
func (s *AuthService) RequestPasswordReset(ctx context.Context, subjectType domain.SubjectType, email string) (string, error) {
	subjectID, err := s.lookupSubjectID(ctx, subjectType, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", apperrors.MapError(err)
	}

	token := &repository.PasswordResetToken{
		SubjectType: string(subjectType),
		SubjectID:   subjectID,
		Token:       uuid.NewString(),
		ExpiresAt:   time.Now().Add(time.Duration(s.cfg.PasswordResetTTLMinutes) * time.Minute),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return "", apperrors.MapError(err)
	}
	return token.Token, nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	if newPassword == "" {
		return apperrors.NewValidationError("password is required", nil)
	}

	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("invalid reset token")
		}
		return apperrors.MapError(err)
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return apperrors.NewUnauthorized("reset token expired")
	}

	hashed, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.setPassword(ctx, domain.SubjectType(token.SubjectType), token.SubjectID, hashed); err != nil {
		return err
	}
	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ChangePassword verifies the current password and replaces it.
func (s *AuthService) ChangePassword(ctx context.Context, subjectType domain.SubjectType, subjectID, current, next string) error {
	if next == "" {
		return apperrors.NewValidationError("new password is required", nil)
	}

	hash, err := s.lookupPasswordHash(ctx, subjectType, subjectID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(hash, current); err != nil {
		return apperrors.NewUnauthorized("current password is incorrect")
	}

	hashed, err := auth.HashPassword(next, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return s.setPassword(ctx, subjectType, subjectID, hashed)
}

func (s *AuthService) lookupSubjectID(ctx context.Context, subjectType domain.SubjectType, email string) (string, error) {
	switch subjectType {
	case domain.SubjectTypeDriver:
		driver, err := s.drivers.GetByEmail(ctx, email)
		if err != nil {
			return "", err
		}
		return driver.ID, nil
	case domain.SubjectTypeStaff:
		staff, err := s.staff.GetByEmail(ctx, email)
		if err != nil {
			return "", err
		}
		return staff.ID, nil
	default:
		return "", apperrors.NewValidationError("unknown subject type", nil)
	}
}

func (s *AuthService) lookupPasswordHash(ctx context.Context, subjectType domain.SubjectType, subjectID string) (string, error) {
	switch subjectType {
	case domain.SubjectTypeDriver:
		driver, err := s.drivers.GetByID(ctx, subjectID)
		if err != nil {
			return "", apperrors.MapError(err)
		}
		return driver.PasswordHash, nil
	case domain.SubjectTypeStaff:
		staff, err := s.staff.GetByID(ctx, subjectID)
		if err != nil {
			return "", apperrors.MapError(err)
		}
		return staff.PasswordHash, nil
	default:
		return "", apperrors.NewValidationError("unknown subject type", nil)
	}
}

func (s *AuthService) setPassword(ctx context.Context, subjectType domain.SubjectType, subjectID, hashed string) error {
	switch subjectType {
	case domain.SubjectTypeDriver:
		driver, err := s.drivers.GetByID(ctx, subjectID)
		if err != nil {
			return apperrors.MapError(err)
		}
		driver.PasswordHash = hashed
		return apperrors.MapError(s.drivers.Update(ctx, driver))
	case domain.SubjectTypeStaff:
		staff, err := s.staff.GetByID(ctx, subjectID)
		if err != nil {
			return apperrors.MapError(err)
		}
		staff.PasswordHash = hashed
		return apperrors.MapError(s.staff.Update(ctx, staff))
	default:
		return apperrors.NewValidationError("unknown subject type", nil)
	}
}
