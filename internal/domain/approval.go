package domain

import "time"

// ApprovalDecision is the outcome recorded by a manager.
type ApprovalDecision string

const (
	ApprovalApproved    ApprovalDecision = "Approved"
	ApprovalNotApproved ApprovalDecision = "Not Approved"
)

// Valid reports whether d is a recordable decision.
func (d ApprovalDecision) Valid() bool {
	return d == ApprovalApproved || d == ApprovalNotApproved
}

// TicketApprovalStatus maps the decision onto the ticket tri-state.
func (d ApprovalDecision) TicketApprovalStatus() TicketApprovalStatus {
	if d == ApprovalApproved {
		return TicketApprovalApproved
	}
	return TicketApprovalNotApproved
}

// Approval is one entry of the append-only decision log for a ticket.
type Approval struct {
	ID          string
	TicketID    string
	ApproverID  string
	AssigneeIDs []string
	Status      ApprovalDecision
	Remarks     string
	ApprovedAt  time.Time
	CreatedAt   time.Time
}
