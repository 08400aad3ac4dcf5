package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fleet-kit/maintenance-service/internal/api/dto"
	"github.com/fleet-kit/maintenance-service/internal/auth"
	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/events"
	"github.com/fleet-kit/maintenance-service/internal/service"
	apperrors "github.com/fleet-kit/maintenance-service/pkg/util"
)

// StaffIssuesHandler manages staff-facing issue operations.
type StaffIssuesHandler struct {
	issues *service.IssueService
	triage *service.TriageService
}

// NewStaffIssuesHandler constructs handler.
func NewStaffIssuesHandler(issues *service.IssueService, triageService *service.TriageService) *StaffIssuesHandler {
	return &StaffIssuesHandler{issues: issues, triage: triageService}
}

// ListIssues GET /staff/issues.
func (h *StaffIssuesHandler) ListIssues(c *fiber.Ctx) error {
	filter := parseIssueQuery(c)
	issues, err := h.issues.ListIssues(c.Context(), filter, service.Requester{IsStaff: true})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromIssues(issues)})
}

// GetIssue GET /staff/issues/:id.
func (h *StaffIssuesHandler) GetIssue(c *fiber.Ctx) error {
	requester := service.Requester{IsStaff: true}
	issue, err := h.issues.GetIssue(c.Context(), c.Params("id"), requester)
	if err != nil {
		return err
	}
	history, err := h.issues.ListHistory(c.Context(), issue.ID, requester)
	if err != nil {
		return err
	}
	ranked, err := h.triage.ScoreIssue(c.Context(), issue.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":     dto.FromIssue(issue),
		"history":  dto.FromHistory(history),
		"priority": dto.FromPriority(ranked.Priority),
	})
}

// UpdateStatus PATCH /staff/issues/:id/status.
func (h *StaffIssuesHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateIssueStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}
	issue, err := h.issues.UpdateStatus(c.Context(), c.Params("id"),
		domain.IssueStatus(strings.ToUpper(req.Status)), staffActor(c), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromIssue(issue)})
}

// UpdateSeverity PATCH /staff/issues/:id/severity.
func (h *StaffIssuesHandler) UpdateSeverity(c *fiber.Ctx) error {
	var req dto.UpdateIssueSeverityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Severity == "" {
		return apperrors.NewValidationError("severity required", nil)
	}
	issue, err := h.issues.UpdateSeverity(c.Context(), c.Params("id"),
		domain.IssueSeverity(strings.ToUpper(req.Severity)), staffActor(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromIssue(issue)})
}

// TriageQueue GET /staff/issues/triage-queue.
func (h *StaffIssuesHandler) TriageQueue(c *fiber.Ctx) error {
	limit := parseInt(c.Query("limit"), 50)
	ranked, err := h.triage.RankOpenIssues(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromRankedIssues(ranked)})
}

func staffActor(c *fiber.Ctx) events.Actor {
	actor := events.Actor{Type: domain.SubjectTypeStaff}
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Staff != nil {
		actor.StaffID = &principal.Staff.ID
	}
	return actor
}
