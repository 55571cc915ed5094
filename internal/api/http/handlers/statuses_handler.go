package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk-service/internal/api/dto"
	"github.com/deskflow/helpdesk-service/internal/service"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

// StatusesHandler exposes the ticket status taxonomy.
type StatusesHandler struct {
	service *service.StatusService
}

// NewStatusesHandler constructs handler.
func NewStatusesHandler(statusService *service.StatusService) *StatusesHandler {
	return &StatusesHandler{service: statusService}
}

// List GET /ticket-statuses. Pass active=true to hide inactive entries.
func (h *StatusesHandler) List(c *fiber.Ctx) error {
	statuses, err := h.service.List(c.UserContext(), c.QueryBool("active", false))
	if err != nil {
		return err
	}
	out := make([]dto.StatusResponse, 0, len(statuses))
	for i := range statuses {
		out = append(out, statusResponse(&statuses[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Create POST /ticket-statuses.
func (h *StatusesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	status, err := h.service.Create(c.UserContext(), service.StatusCreateInput{
		Name:      req.Name,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": statusResponse(status)})
}

// Update PUT /ticket-statuses/:id.
func (h *StatusesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	status, err := h.service.Update(c.UserContext(), c.Params("id"), service.StatusUpdateInput{
		Name:      req.Name,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statusResponse(status)})
}
