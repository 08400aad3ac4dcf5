package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fleet-kit/maintenance-service/internal/api/dto"
	"github.com/fleet-kit/maintenance-service/internal/service"
	apperrors "github.com/fleet-kit/maintenance-service/pkg/util"
)

// WorkOrdersHandler manages staff work order endpoints.
type WorkOrdersHandler struct {
	orders *service.WorkOrderService
}

// NewWorkOrdersHandler constructs handler.
func NewWorkOrdersHandler(orders *service.WorkOrderService) *WorkOrdersHandler {
	return &WorkOrdersHandler{orders: orders}
}

// Create POST /staff/issues/:id/work-orders.
func (h *WorkOrdersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.orders.CreateWorkOrder(c.Context(), service.CreateWorkOrderInput{
		IssueID:      c.Params("id"),
		AssigneeID:   req.AssigneeID,
		ScheduledFor: req.ScheduledFor,
		Notes:        req.Notes,
	}, staffActor(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromWorkOrder(order)})
}

// ListByIssue GET /staff/issues/:id/work-orders.
func (h *WorkOrdersHandler) ListByIssue(c *fiber.Ctx) error {
	orders, err := h.orders.ListByIssue(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromWorkOrders(orders)})
}

// Start POST /staff/work-orders/:id/start.
func (h *WorkOrdersHandler) Start(c *fiber.Ctx) error {
	order, err := h.orders.StartWorkOrder(c.Context(), c.Params("id"), staffActor(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromWorkOrder(order)})
}

// Complete POST /staff/work-orders/:id/complete.
func (h *WorkOrdersHandler) Complete(c *fiber.Ctx) error {
	var req dto.CompleteWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	order, err := h.orders.CompleteWorkOrder(c.Context(), service.CompleteWorkOrderInput{
		OrderID:    c.Params("id"),
		LaborHours: req.LaborHours,
		PartsCost:  req.PartsCost,
		Notes:      req.Notes,
	}, staffActor(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromWorkOrder(order)})
}

// FlagParts POST /staff/issues/:id/parts-needed.
func (h *WorkOrdersHandler) FlagParts(c *fiber.Ctx) error {
	var req dto.FlagPartsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.orders.FlagPartsNeeded(c.Context(), service.FlagPartsNeededInput{
		IssueID:       c.Params("id"),
		EstimatedCost: req.EstimatedCost,
		LeadTimeDays:  req.LeadTimeDays,
	}, staffActor(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"flagged": true}})
}
