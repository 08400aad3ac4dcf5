package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fleet-kit/maintenance-service/internal/api/dto"
	"github.com/fleet-kit/maintenance-service/internal/auth"
	"github.com/fleet-kit/maintenance-service/internal/domain"
	"github.com/fleet-kit/maintenance-service/internal/events"
	"github.com/fleet-kit/maintenance-service/internal/repository"
	"github.com/fleet-kit/maintenance-service/internal/service"
	apperrors "github.com/fleet-kit/maintenance-service/pkg/util"
)

// IssuesHandler manages driver-facing issue endpoints.
type IssuesHandler struct {
	issues *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issues *service.IssueService) *IssuesHandler {
	return &IssuesHandler{issues: issues}
}

// CreateIssue POST /issues.
func (h *IssuesHandler) CreateIssue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Driver == nil {
		return apperrors.NewUnauthorized("driver required")
	}
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FleetNumber == "" || req.Title == "" {
		return apperrors.NewValidationError("fleet_number and title required", nil)
	}

	issue, err := h.issues.CreateIssue(c.Context(), service.CreateIssueInput{
		DriverID:      principal.Driver.ID,
		FleetNumber:   req.FleetNumber,
		Category:      domain.IssueCategory(strings.ToUpper(req.Category)),
		Severity:      domain.IssueSeverity(strings.ToUpper(req.Severity)),
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		EstimatedCost: req.EstimatedCost,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromIssue(issue)})
}

// ListIssues GET /issues.
func (h *IssuesHandler) ListIssues(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Driver == nil {
		return apperrors.NewUnauthorized("driver required")
	}
	filter := parseIssueQuery(c)
	issues, err := h.issues.ListIssues(c.Context(), filter, service.Requester{DriverID: &principal.Driver.ID})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromIssues(issues)})
}

// GetIssue GET /issues/:id.
func (h *IssuesHandler) GetIssue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Driver == nil {
		return apperrors.NewUnauthorized("driver required")
	}
	requester := service.Requester{DriverID: &principal.Driver.ID}
	issue, err := h.issues.GetIssue(c.Context(), c.Params("id"), requester)
	if err != nil {
		return err
	}
	history, err := h.issues.ListHistory(c.Context(), issue.ID, requester)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    dto.FromIssue(issue),
		"history": dto.FromHistory(history),
	})
}

// CancelIssue POST /issues/:id/cancel.
func (h *IssuesHandler) CancelIssue(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Driver == nil {
		return apperrors.NewUnauthorized("driver required")
	}
	requester := service.Requester{DriverID: &principal.Driver.ID}
	if _, err := h.issues.GetIssue(c.Context(), c.Params("id"), requester); err != nil {
		return err
	}
	actor := events.Actor{Type: domain.SubjectTypeDriver, DriverID: &principal.Driver.ID}
	issue, err := h.issues.UpdateStatus(c.Context(), c.Params("id"), domain.IssueStatusCancelled, actor, "cancelled by driver")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromIssue(issue)})
}

func parseIssueQuery(c *fiber.Ctx) repository.IssueFilter {
	filter := repository.IssueFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.IssueStatus(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if severityStr := c.Query("severity"); severityStr != "" {
		for _, part := range strings.Split(severityStr, ",") {
			filter.Severities = append(filter.Severities, domain.IssueSeverity(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if categoryStr := c.Query("category"); categoryStr != "" {
		for _, part := range strings.Split(categoryStr, ",") {
			filter.Categories = append(filter.Categories, domain.IssueCategory(strings.ToUpper(strings.TrimSpace(part))))
		}
	}
	if fleet := c.Query("fleet_number"); fleet != "" {
		filter.FleetNumber = &fleet
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("created_from")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("created_to")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
