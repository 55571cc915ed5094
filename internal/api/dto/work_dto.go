package dto

import (
	"time"

	"github.com/deskflow/helpdesk-service/internal/domain"
)

// WorkAnalysisRequest is a worker's submission. material_required is decoded
// case-insensitively by the handler.
type WorkAnalysisRequest struct {
	TicketID            string   `json:"ticket_id" validate:"required"`
	MaterialRequired    string   `json:"material_required" validate:"required"`
	MaterialDescription string   `json:"material_description"`
	WorkerID            string   `json:"worker_id"`
	WorkerName          string   `json:"worker_name"`
	// Images is filled from multipart uploads only.
	Images              []string `json:"-"`
}

// WorkAnalysisResponse is a stored analysis.
type WorkAnalysisResponse struct {
	ID                  string                        `json:"id"`
	AnalysisID          string                        `json:"analysis_id"`
	TicketID            string                        `json:"ticket_id"`
	WorkerID            string                        `json:"worker_id"`
	WorkerName          string                        `json:"worker_name"`
	MaterialRequired    domain.MaterialRequired       `json:"material_required"`
	MaterialDescription string                        `json:"material_description"`
	Images              []string                      `json:"images"`
	ApprovalStatus      domain.AnalysisApprovalStatus `json:"approval_status"`
	ApproverID          *string                       `json:"approver_id"`
	ApprovedAt          *time.Time                    `json:"approved_at"`
	TicketStatus        string                        `json:"ticket_status,omitempty"`
	CreatedAt           time.Time                     `json:"created_at"`
	UpdatedAt           time.Time                     `json:"updated_at"`
}

// ApprovalRequest is a manager decision on a ticket.
type ApprovalRequest struct {
	TicketID       string       `json:"ticket_id" validate:"required"`
	ApprovalStatus string       `json:"approval_status" validate:"required"`
	AssignedTo     AssigneeList `json:"assigned_to"`
	Remarks        string       `json:"remarks" validate:"max=2000"`
	ApprovedAt     *time.Time   `json:"approved_at"`
}

// UserRefResponse is an expanded user reference.
type UserRefResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// ApprovalResponse is one appended decision.
type ApprovalResponse struct {
	ID             string                  `json:"id"`
	TicketID       string                  `json:"ticket_id"`
	ApprovalStatus domain.ApprovalDecision `json:"approval_status"`
	Approver       UserRefResponse         `json:"approver"`
	AssignedTo     []UserRefResponse       `json:"assigned_to"`
	Remarks        string                  `json:"remarks"`
	ApprovedAt     time.Time               `json:"approved_at"`
	CreatedAt      time.Time               `json:"created_at"`
}

// WorkLogRequest is one labor entry. Times and duration are kept verbatim.
type WorkLogRequest struct {
	TicketID   string `json:"ticket_id" validate:"required"`
	AnalysisID string `json:"analysis_id"`
	WorkerID   string `json:"worker_id" validate:"required"`
	WorkerName string `json:"worker_name" validate:"required"`
	FromTime   string `json:"from_time" validate:"required"`
	ToTime     string `json:"to_time" validate:"required"`
	Duration   string `json:"duration" validate:"required"`
	LogDate    string `json:"log_date" validate:"required"`
}

// WorkLogResponse is a stored labor entry.
type WorkLogResponse struct {
	ID         string    `json:"id"`
	LogID      string    `json:"log_id"`
	TicketID   string    `json:"ticket_id"`
	AnalysisID *string   `json:"analysis_id"`
	WorkerID   string    `json:"worker_id"`
	WorkerName string    `json:"worker_name"`
	FromTime   string    `json:"from_time"`
	ToTime     string    `json:"to_time"`
	Duration   string    `json:"duration"`
	LogDate    string    `json:"log_date"`
	CreatedAt  time.Time `json:"created_at"`
}
