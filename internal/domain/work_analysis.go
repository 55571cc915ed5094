package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidMaterialRequired is returned for values other than Yes/No.
var ErrInvalidMaterialRequired = errors.New("material_required must be Yes or No")

// MaterialRequired is the worker's verdict on whether a ticket needs material.
type MaterialRequired string

const (
	MaterialRequiredYes MaterialRequired = "Yes"
	MaterialRequiredNo  MaterialRequired = "No"
)

// ParseMaterialRequired decodes a boundary value, accepting any letter case.
func ParseMaterialRequired(raw string) (MaterialRequired, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes":
		return MaterialRequiredYes, nil
	case "no":
		return MaterialRequiredNo, nil
	}
	return "", ErrInvalidMaterialRequired
}

var materialStatusNames = map[MaterialRequired]string{
	MaterialRequiredYes: StatusNameMaterialRequest,
	MaterialRequiredNo:  StatusNameMaterialApproved,
}

// StatusName returns the ticket status a verdict resolves to. ok is false for
// values outside the mapping.
func (m MaterialRequired) StatusName() (name string, ok bool) {
	name, ok = materialStatusNames[m]
	return name, ok
}

// Description keeps desc only when material is required.
func (m MaterialRequired) Description(desc string) string {
	if m != MaterialRequiredYes {
		return ""
	}
	return strings.TrimSpace(desc)
}

// AnalysisApprovalStatus tracks the manager decision on a work analysis.
type AnalysisApprovalStatus string

const (
	AnalysisPending  AnalysisApprovalStatus = "Pending"
	AnalysisApproved AnalysisApprovalStatus = "Approved"
	AnalysisRejected AnalysisApprovalStatus = "Rejected"
)

// WorkAnalysis is the single authoritative assessment for a ticket.
type WorkAnalysis struct {
	ID                  string
	AnalysisID          string
	TicketID            string
	WorkerID            string
	WorkerName          string
	MaterialRequired    MaterialRequired
	MaterialDescription string
	Images              []string
	ApprovalStatus      AnalysisApprovalStatus
	ApproverID          *string
	ApprovedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Resubmit folds a repeated submission into an existing analysis. Images are
// replaced only when the new submission carries some.
func (wa *WorkAnalysis) Resubmit(next WorkAnalysis, now time.Time) {
	wa.MaterialRequired = next.MaterialRequired
	wa.MaterialDescription = next.MaterialRequired.Description(next.MaterialDescription)
	if len(next.Images) > 0 {
		wa.Images = append([]string(nil), next.Images...)
	}
	if strings.TrimSpace(next.WorkerName) != "" {
		wa.WorkerName = next.WorkerName
	}
	wa.UpdatedAt = now
}

// Decide records a manager decision.
func (wa *WorkAnalysis) Decide(status AnalysisApprovalStatus, approverID string, now time.Time) {
	wa.ApprovalStatus = status
	id := approverID
	wa.ApproverID = &id
	at := now
	wa.ApprovedAt = &at
	wa.UpdatedAt = now
}
