package domain

import "time"

// WorkLog is a labor entry against a ticket. Times and duration are kept as
// entered.
type WorkLog struct {
	ID         string
	LogID      string
	TicketID   string
	AnalysisID *string
	WorkerID   string
	WorkerName string
	FromTime   string
	ToTime     string
	Duration   string
	LogDate    time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
