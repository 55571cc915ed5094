package dto

import "time"

// CreateStatusRequest adds a status. A zero sort_order appends it.
type CreateStatusRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
	IsActive  *bool  `json:"is_active"`
}

// UpdateStatusRequest edits a status.
type UpdateStatusRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=100"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,min=1"`
	IsActive  *bool   `json:"is_active"`
}

// StatusResponse is one taxonomy entry.
type StatusResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
