package events

import (
	"time"

	"github.com/deskflow/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventWorkAnalysisSubmitted EventType = "work_analysis_submitted"
	EventWorkAnalysisDecided   EventType = "work_analysis_decided"
	EventApprovalRecorded      EventType = "approval_recorded"
	EventWorkLogRecorded       EventType = "work_log_recorded"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string          `json:"user_id,omitempty"`
	Role   domain.UserRole `json:"role,omitempty"`
}

// ActorFrom builds an Actor from a caller identity.
func ActorFrom(identity domain.Identity) Actor {
	return Actor{UserID: identity.UserID, Role: identity.Role}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Code         string `json:"code"`
	DepartmentID string `json:"department_id"`
	Title        string `json:"title"`
	StatusName   string `json:"status_name"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	Closed    bool   `json:"closed"`
}

// WorkAnalysisSubmittedPayload payload.
type WorkAnalysisSubmittedPayload struct {
	AnalysisID       string                  `json:"analysis_id"`
	WorkerID         string                  `json:"worker_id"`
	MaterialRequired domain.MaterialRequired `json:"material_required"`
	Created          bool                    `json:"created"`
}

// WorkAnalysisDecidedPayload payload.
type WorkAnalysisDecidedPayload struct {
	AnalysisID string                        `json:"analysis_id"`
	Status     domain.AnalysisApprovalStatus `json:"status"`
}

// ApprovalRecordedPayload payload.
type ApprovalRecordedPayload struct {
	ApprovalID  string                  `json:"approval_id"`
	Status      domain.ApprovalDecision `json:"status"`
	AssigneeIDs []string                `json:"assignee_ids"`
}

// WorkLogRecordedPayload payload.
type WorkLogRecordedPayload struct {
	LogID    string `json:"log_id"`
	WorkerID string `json:"worker_id"`
	Duration string `json:"duration"`
}
