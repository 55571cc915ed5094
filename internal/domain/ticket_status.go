package domain

import "time"

// Well-known status names. Other names may exist at runtime.
const (
	StatusNameOpen             = "Open"
	StatusNameClosed           = "Closed"
	StatusNameMaterialRequest  = "Material Request"
	StatusNameMaterialApproved = "Material Approved"
)

// TicketStatus is one entry of the runtime status taxonomy.
type TicketStatus struct {
	ID        string
	Name      string
	SortOrder int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
