package handlers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk-service/internal/api/dto"
	"github.com/deskflow/helpdesk-service/internal/auth"
	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/repository"
	"github.com/deskflow/helpdesk-service/internal/service"
	"github.com/deskflow/helpdesk-service/internal/storage"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
	files   storage.Store
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, files storage.Store) *TicketsHandler {
	return &TicketsHandler{service: ticketService, files: files}
}

// CreateTicket POST /tickets. Accepts JSON or multipart with an optional image.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var (
		req       dto.CreateTicketRequest
		imagePath *string
	)
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return apperrors.NewValidationError("invalid multipart payload", nil)
		}
		req = dto.CreateTicketRequest{
			DepartmentID: formValue(form, "department_id"),
			CompanyID:    optionalFormValue(form, "company_id"),
			Title:        formValue(form, "title"),
			Description:  formValue(form, "description"),
			PriorityID:   optionalFormValue(form, "priority_id"),
			AssignedTo:   dto.ParseAssignees(strings.Join(form.Value["assigned_to"], ",")),
		}
		if err := dto.Validate(req); err != nil {
			return err
		}
		paths, err := saveUploads(c.UserContext(), h.files, formFiles(form, "image"))
		if err != nil {
			return err
		}
		if len(paths) > 0 {
			imagePath = &paths[0]
		}
	} else {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if err := dto.Validate(req); err != nil {
			return err
		}
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), auth.IdentityFromContext(c), service.TicketCreateInput{
		DepartmentID: req.DepartmentID,
		CompanyID:    req.CompanyID,
		Title:        req.Title,
		Description:  req.Description,
		PriorityID:   req.PriorityID,
		AssignedTo:   req.AssignedTo,
		ImagePath:    imagePath,
	})
	if err != nil {
		if imagePath != nil {
			discardUploads(c.UserContext(), h.files, []string{*imagePath})
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// ExportTickets GET /tickets/export. Same filters as the list, as an xlsx workbook.
func (h *TicketsHandler) ExportTickets(c *fiber.Ctx) error {
	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	filter.Limit, filter.Offset = 0, 0

	var buf bytes.Buffer
	if err := h.service.ExportTickets(c.UserContext(), filter, &buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="tickets.xlsx"`)
	return c.Send(buf.Bytes())
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.TicketUpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
		CompanyID:    req.CompanyID,
		PriorityID:   req.PriorityID,
	}
	if req.AssignedTo != nil {
		assigned := []string(*req.AssignedTo)
		input.AssignedTo = &assigned
	}
	if req.StatusID != nil || req.Status != nil {
		input.Status = &service.StatusTarget{ID: req.StatusID, Name: req.Status}
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.service.DeleteTicket(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UpdateStatus PUT /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	target := service.StatusTarget{ID: req.StatusID, Name: req.Status}
	ticket, err := h.service.UpdateStatus(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), target)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// BulkUpdateStatus PUT /tickets/status.
func (h *TicketsHandler) BulkUpdateStatus(c *fiber.Ctx) error {
	var req dto.BulkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	target := service.StatusTarget{ID: req.StatusID, Name: req.Status}
	result, err := h.service.BulkUpdateStatus(c.UserContext(), auth.IdentityFromContext(c), req.TicketIDs, target)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BulkStatusResponse{
		Updated: ticketResponses(result.Updated),
		Missing: result.Missing,
	}})
}

// ListHistory GET /tickets/:id/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	entries, err := h.service.ListHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(entries)})
}

// Dashboard GET /dashboard/summary.
func (h *TicketsHandler) Dashboard(c *fiber.Ctx) error {
	summary, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DashboardResponse{
		Total:            summary.Total,
		ByStatus:         countResponses(summary.ByStatus),
		ByApprovalStatus: countResponses(summary.ByApprovalStatus),
	}})
}

func parseTicketQuery(c *fiber.Ctx) (repository.TicketFilter, error) {
	filter := repository.TicketFilter{
		StatusID:     queryRef(c, "status_id"),
		StatusName:   queryRef(c, "status"),
		DepartmentID: queryRef(c, "department_id"),
		RaisedByID:   queryRef(c, "raised_by"),
		AssignedTo:   queryRef(c, "assigned_to"),
		SearchTerm:   queryRef(c, "search"),
	}
	if raw := queryRef(c, "approval_status"); raw != nil {
		status := domain.TicketApprovalStatus(*raw)
		if !status.Valid() {
			return filter, apperrors.NewValidationError("unknown approval_status", map[string]any{"approval_status": *raw})
		}
		filter.ApprovalStatus = &status
	}
	filter.Limit, filter.Offset = pageParams(c.Query("page"), c.Query("page_size"))
	return filter, nil
}

func queryRef(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	return &val
}
