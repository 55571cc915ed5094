package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/deskflow/helpdesk-service/internal/repository"
)

const (
	exportSheet    = "Tickets"
	exportMaxRows  = 5000
	exportTimeForm = "2006-01-02 15:04"
)

var ticketExportHeaders = []string{
	"Code", "Title", "Status", "Priority", "Approval", "Department", "Raised By",
	"Assigned To", "Created At", "Closed At",
}

// ExportTickets writes the filtered ticket list as an xlsx workbook to w.
func (s *TicketService) ExportTickets(ctx context.Context, filter repository.TicketFilter, w io.Writer) error {
	if filter.Limit <= 0 || filter.Limit > exportMaxRows {
		filter.Limit = exportMaxRows
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return err
	}
	for i, h := range ticketExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(ticketExportHeaders), 1)
	if err := f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	for i, t := range tickets {
		row := []any{
			t.Code,
			t.Title,
			t.StatusName,
			t.PriorityName,
			string(t.ApprovalStatus),
			t.DepartmentID,
			t.RaisedByID,
			strings.Join(t.AssignedTo, ", "),
			t.CreatedAt.Format(exportTimeForm),
			formatOptionalTime(t.ClosedAt),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	widths := []float64{14, 36, 18, 10, 14, 38, 38, 40, 18, 18}
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(exportSheet, col, col, width); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTimeForm)
}
