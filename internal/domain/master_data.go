package domain

import "time"

// Department owns tickets; every ticket is raised against one.
type Department struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Company is an optional owning organisation for a ticket.
type Company struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Priority is a named urgency level. Level orders priorities, lowest first.
type Priority struct {
	ID        string
	Name      string
	Level     int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Designation is a job title attached to users.
type Designation struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
