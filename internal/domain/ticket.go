package domain

import "time"

// TicketApprovalStatus is the manager decision stamped on a ticket.
type TicketApprovalStatus string

const (
	TicketApprovalPending     TicketApprovalStatus = "Pending"
	TicketApprovalApproved    TicketApprovalStatus = "Approved"
	TicketApprovalNotApproved TicketApprovalStatus = "Not Approved"
)

// Valid reports whether s is a known ticket approval state.
func (s TicketApprovalStatus) Valid() bool {
	switch s {
	case TicketApprovalPending, TicketApprovalApproved, TicketApprovalNotApproved:
		return true
	}
	return false
}

// Ticket is the root of the workflow.
type Ticket struct {
	ID             string
	Code           string
	RaisedByID     string
	DepartmentID   string
	CompanyID      *string
	Title          string
	Description    string
	ImagePath      *string
	PriorityID     *string
	PriorityName   string
	StatusID       *string
	StatusName     string
	ApprovalStatus TicketApprovalStatus
	AssignedTo     []string
	ApproverID     *string
	ApprovedAt     *time.Time
	ClosedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DeriveClosedAt computes closed_at for a ticket whose status reference just
// changed to a status named statusName.
func DeriveClosedAt(statusName string, now time.Time) *time.Time {
	if statusName != StatusNameClosed {
		return nil
	}
	closed := now
	return &closed
}

// ApplyStatus moves the ticket to the given status reference and name.
// closed_at is recomputed only when the reference changes. It reports whether
// the reference changed.
func (t *Ticket) ApplyStatus(statusID *string, statusName string, now time.Time) bool {
	changed := !sameRef(t.StatusID, statusID)
	t.StatusID = copyRef(statusID)
	t.StatusName = statusName
	if changed {
		t.ClosedAt = DeriveClosedAt(statusName, now)
	}
	return changed
}

// RenameStatus follows a rename of the status record the ticket points at.
// closed_at survives only when the ticket was closed and stays closed.
func (t *Ticket) RenameStatus(name string, now time.Time) {
	stillClosed := t.IsClosed() && t.ClosedAt != nil && name == StatusNameClosed
	t.StatusName = name
	if !stillClosed {
		t.ClosedAt = DeriveClosedAt(name, now)
	}
}

// IsClosed reports whether the current status name is the closed state.
func (t *Ticket) IsClosed() bool {
	return t.StatusName == StatusNameClosed
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyRef(ref *string) *string {
	if ref == nil {
		return nil
	}
	v := *ref
	return &v
}
