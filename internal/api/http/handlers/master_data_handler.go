package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/helpdesk-service/internal/api/dto"
	"github.com/deskflow/helpdesk-service/internal/service"
)

// MasterDataHandler lists the selectable rows used by ticket forms.
type MasterDataHandler struct {
	service *service.MasterDataService
}

// NewMasterDataHandler constructs handler.
func NewMasterDataHandler(masterData *service.MasterDataService) *MasterDataHandler {
	return &MasterDataHandler{service: masterData}
}

func (h *MasterDataHandler) Departments(c *fiber.Ctx) error {
	rows, err := h.service.Departments(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.MasterDataResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, dto.MasterDataResponse{ID: d.ID, Name: d.Name, Description: d.Description})
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *MasterDataHandler) Companies(c *fiber.Ctx) error {
	rows, err := h.service.Companies(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.MasterDataResponse, 0, len(rows))
	for _, co := range rows {
		out = append(out, dto.MasterDataResponse{ID: co.ID, Name: co.Name})
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *MasterDataHandler) Priorities(c *fiber.Ctx) error {
	rows, err := h.service.Priorities(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.MasterDataResponse, 0, len(rows))
	for _, p := range rows {
		level := p.Level
		out = append(out, dto.MasterDataResponse{ID: p.ID, Name: p.Name, Level: &level})
	}
	return c.JSON(fiber.Map{"data": out})
}

func (h *MasterDataHandler) Designations(c *fiber.Ctx) error {
	rows, err := h.service.Designations(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.MasterDataResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, dto.MasterDataResponse{ID: d.ID, Name: d.Name})
	}
	return c.JSON(fiber.Map{"data": out})
}
