package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk-service/internal/api/dto"
	"github.com/deskflow/helpdesk-service/internal/auth"
	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/service"
	"github.com/deskflow/helpdesk-service/internal/storage"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

// WorkAnalysisHandler serves worker analyses and manager decisions on them.
type WorkAnalysisHandler struct {
	service *service.WorkAnalysisService
	files   storage.Store
}

// NewWorkAnalysisHandler constructs handler.
func NewWorkAnalysisHandler(analysisService *service.WorkAnalysisService, files storage.Store) *WorkAnalysisHandler {
	return &WorkAnalysisHandler{service: analysisService, files: files}
}

// Submit POST /work-analysis. Returns 201 when the analysis was created and 200
// when an existing one was updated.
func (h *WorkAnalysisHandler) Submit(c *fiber.Ctx) error {
	var req dto.WorkAnalysisRequest
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return apperrors.NewValidationError("invalid multipart payload", nil)
		}
		req = dto.WorkAnalysisRequest{
			TicketID:            formValue(form, "ticket_id"),
			MaterialRequired:    formValue(form, "material_required"),
			MaterialDescription: formValue(form, "material_description"),
			WorkerID:            formValue(form, "worker_id"),
			WorkerName:          formValue(form, "worker_name"),
		}
		if err := dto.Validate(req); err != nil {
			return err
		}
		// reject a bad enum before any file is written
		if _, err := domain.ParseMaterialRequired(req.MaterialRequired); err != nil {
			return materialError(req.MaterialRequired)
		}
		req.Images, err = saveUploads(c.UserContext(), h.files, formFiles(form, "images[]", "images"))
		if err != nil {
			return err
		}
	} else {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if err := dto.Validate(req); err != nil {
			return err
		}
	}

	material, err := domain.ParseMaterialRequired(req.MaterialRequired)
	if err != nil {
		return materialError(req.MaterialRequired)
	}

	result, err := h.service.Submit(c.UserContext(), auth.IdentityFromContext(c), service.WorkAnalysisInput{
		TicketID:            req.TicketID,
		MaterialRequired:    material,
		MaterialDescription: req.MaterialDescription,
		WorkerID:            req.WorkerID,
		WorkerName:          req.WorkerName,
		Images:              req.Images,
	})
	if err != nil {
		discardUploads(c.UserContext(), h.files, req.Images)
		return err
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{"data": analysisResponse(result)})
}

// Get GET /work-analysis/:id.
func (h *WorkAnalysisHandler) Get(c *fiber.Ctx) error {
	result, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": analysisResponse(result)})
}

// GetByTicket GET /tickets/:id/work-analysis.
func (h *WorkAnalysisHandler) GetByTicket(c *fiber.Ctx) error {
	result, err := h.service.GetByTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": analysisResponse(result)})
}

// List GET /work-analysis.
func (h *WorkAnalysisHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c.Query("page"), c.Query("page_size"))
	results, err := h.service.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	out := make([]dto.WorkAnalysisResponse, 0, len(results))
	for i := range results {
		out = append(out, analysisResponse(&results[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Approve PUT /work-analysis/:id/approve.
func (h *WorkAnalysisHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, domain.AnalysisApproved)
}

// Reject PUT /work-analysis/:id/reject.
func (h *WorkAnalysisHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, domain.AnalysisRejected)
}

func (h *WorkAnalysisHandler) decide(c *fiber.Ctx, status domain.AnalysisApprovalStatus) error {
	result, err := h.service.Decide(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": analysisResponse(result)})
}

func materialError(raw string) error {
	return apperrors.NewValidationError(domain.ErrInvalidMaterialRequired.Error(),
		map[string]any{"material_required": raw})
}
