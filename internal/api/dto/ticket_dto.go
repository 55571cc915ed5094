package dto

import (
	"time"

	"github.com/deskflow/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload. Multipart requests carry the same fields as form
// values plus an optional image part.
type CreateTicketRequest struct {
	DepartmentID string       `json:"department_id" validate:"required"`
	CompanyID    *string      `json:"company_id"`
	Title        string       `json:"title" validate:"required,max=255"`
	Description  string       `json:"description"`
	PriorityID   *string      `json:"priority_id"`
	AssignedTo   AssigneeList `json:"assigned_to"`
}

// UpdateTicketRequest is a partial edit. Absent fields are left unchanged.
type UpdateTicketRequest struct {
	Title        *string       `json:"title" validate:"omitempty,max=255"`
	Description  *string       `json:"description"`
	DepartmentID *string       `json:"department_id"`
	CompanyID    *string       `json:"company_id"`
	PriorityID   *string       `json:"priority_id"`
	AssignedTo   *AssigneeList `json:"assigned_to"`
	StatusID     *string       `json:"status_id"`
	Status       *string       `json:"status"`
}

// StatusChangeRequest names a target status by id, name or both.
type StatusChangeRequest struct {
	StatusID *string `json:"status_id"`
	Status   *string `json:"status"`
}

// BulkStatusRequest moves several tickets at once.
type BulkStatusRequest struct {
	TicketIDs []string `json:"ticket_ids" validate:"required,min=1"`
	StatusID  *string  `json:"status_id"`
	Status    *string  `json:"status"`
}

// TicketResponse is the ticket as returned to clients.
type TicketResponse struct {
	ID             string                      `json:"id"`
	Code           string                      `json:"ticket_code"`
	RaisedBy       string                      `json:"raised_by"`
	DepartmentID   string                      `json:"department_id"`
	CompanyID      *string                     `json:"company_id"`
	Title          string                      `json:"title"`
	Description    string                      `json:"description"`
	ImagePath      *string                     `json:"image_path"`
	PriorityID     *string                     `json:"priority_id"`
	Priority       string                      `json:"priority"`
	StatusID       *string                     `json:"status_id"`
	Status         string                      `json:"status"`
	ApprovalStatus domain.TicketApprovalStatus `json:"approval_status"`
	AssignedTo     []string                    `json:"assigned_to"`
	ApproverID     *string                     `json:"approver_id"`
	ApprovedAt     *time.Time                  `json:"approved_at"`
	ClosedAt       *time.Time                  `json:"closed_at"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// BulkStatusResponse reports what a bulk update touched.
type BulkStatusResponse struct {
	Updated []TicketResponse `json:"updated"`
	Missing []string         `json:"missing"`
}

// TicketHistoryResponse is one audit entry.
type TicketHistoryResponse struct {
	ID          string                  `json:"id"`
	ChangeType  domain.TicketChangeType `json:"change_type"`
	ChangedByID *string                 `json:"changed_by_id"`
	OldValue    map[string]any          `json:"old_value"`
	NewValue    map[string]any          `json:"new_value"`
	CreatedAt   time.Time               `json:"created_at"`
}

// CountResponse is one dashboard bucket.
type CountResponse struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// DashboardResponse feeds the dashboard charts.
type DashboardResponse struct {
	Total            int64           `json:"total"`
	ByStatus         []CountResponse `json:"by_status"`
	ByApprovalStatus []CountResponse `json:"by_approval_status"`
}
