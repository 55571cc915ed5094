package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk-service/internal/api/dto"
	"github.com/deskflow/helpdesk-service/internal/auth"
	"github.com/deskflow/helpdesk-service/internal/service"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

// WorkLogsHandler records labor entries.
type WorkLogsHandler struct {
	service *service.WorkLogService
}

// NewWorkLogsHandler constructs handler.
func NewWorkLogsHandler(workLogService *service.WorkLogService) *WorkLogsHandler {
	return &WorkLogsHandler{service: workLogService}
}

// Record POST /work-logs.
func (h *WorkLogsHandler) Record(c *fiber.Ctx) error {
	var req dto.WorkLogRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	entry, err := h.service.Record(c.UserContext(), auth.IdentityFromContext(c), service.WorkLogInput{
		TicketID:   req.TicketID,
		AnalysisID: req.AnalysisID,
		WorkerID:   req.WorkerID,
		WorkerName: req.WorkerName,
		FromTime:   req.FromTime,
		ToTime:     req.ToTime,
		Duration:   req.Duration,
		LogDate:    req.LogDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": workLogResponse(entry)})
}

// List GET /work-logs?ticket_id=|analysis_id=.
func (h *WorkLogsHandler) List(c *fiber.Ctx) error {
	entries, err := h.service.List(c.UserContext(), c.Query("ticket_id"), c.Query("analysis_id"))
	if err != nil {
		return err
	}
	out := make([]dto.WorkLogResponse, 0, len(entries))
	for i := range entries {
		out = append(out, workLogResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Delete DELETE /work-logs/:id.
func (h *WorkLogsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
