package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk-service/internal/api/dto"
	"github.com/deskflow/helpdesk-service/internal/auth"
	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/service"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

// ApprovalsHandler records and lists manager approvals.
type ApprovalsHandler struct {
	service *service.ApprovalService
}

// NewApprovalsHandler constructs handler.
func NewApprovalsHandler(approvalService *service.ApprovalService) *ApprovalsHandler {
	return &ApprovalsHandler{service: approvalService}
}

// Record POST /approvals.
func (h *ApprovalsHandler) Record(c *fiber.Ctx) error {
	var req dto.ApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	view, err := h.service.Record(c.UserContext(), auth.IdentityFromContext(c), service.ApprovalInput{
		TicketID:    req.TicketID,
		Status:      domain.ApprovalDecision(req.ApprovalStatus),
		AssigneeIDs: req.AssignedTo,
		Remarks:     req.Remarks,
		ApprovedAt:  req.ApprovedAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": approvalResponse(view)})
}

// ListByTicket GET /tickets/:id/approvals.
func (h *ApprovalsHandler) ListByTicket(c *fiber.Ctx) error {
	views, err := h.service.ListByTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	out := make([]dto.ApprovalResponse, 0, len(views))
	for i := range views {
		out = append(out, approvalResponse(&views[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}
