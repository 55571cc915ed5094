package handlers

import (
	"strconv"

	"github.com/deskflow/helpdesk-service/internal/api/dto"
	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/repository"
	"github.com/deskflow/helpdesk-service/internal/service"
)

const logDateLayout = "2006-01-02"

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	assigned := ticket.AssignedTo
	if assigned == nil {
		assigned = []string{}
	}
	return dto.TicketResponse{
		ID:             ticket.ID,
		Code:           ticket.Code,
		RaisedBy:       ticket.RaisedByID,
		DepartmentID:   ticket.DepartmentID,
		CompanyID:      ticket.CompanyID,
		Title:          ticket.Title,
		Description:    ticket.Description,
		ImagePath:      ticket.ImagePath,
		PriorityID:     ticket.PriorityID,
		Priority:       ticket.PriorityName,
		StatusID:       ticket.StatusID,
		Status:         ticket.StatusName,
		ApprovalStatus: ticket.ApprovalStatus,
		AssignedTo:     assigned,
		ApproverID:     ticket.ApproverID,
		ApprovedAt:     ticket.ApprovedAt,
		ClosedAt:       ticket.ClosedAt,
		CreatedAt:      ticket.CreatedAt,
		UpdatedAt:      ticket.UpdatedAt,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	out := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, ticketResponse(&tickets[i]))
	}
	return out
}

func historyResponses(entries []domain.TicketHistory) []dto.TicketHistoryResponse {
	resp := make([]dto.TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.TicketHistoryResponse{
			ID:          entry.ID,
			ChangeType:  entry.ChangeType,
			ChangedByID: entry.ChangedByID,
			OldValue:    entry.OldValue,
			NewValue:    entry.NewValue,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return resp
}

func countResponses(buckets []repository.CountBucket) []dto.CountResponse {
	out := make([]dto.CountResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dto.CountResponse{Key: b.Key, Count: b.Count})
	}
	return out
}

func statusResponse(status *domain.TicketStatus) dto.StatusResponse {
	return dto.StatusResponse{
		ID:        status.ID,
		Name:      status.Name,
		SortOrder: status.SortOrder,
		IsActive:  status.IsActive,
		CreatedAt: status.CreatedAt,
		UpdatedAt: status.UpdatedAt,
	}
}

// analysisResponse reports the display name in worker_name, which falls back to
// the worker id when the directory has no match.
func analysisResponse(result *service.WorkAnalysisResult) dto.WorkAnalysisResponse {
	a := result.Analysis
	images := a.Images
	if images == nil {
		images = []string{}
	}
	name := result.WorkerDisplayName
	if name == "" {
		name = a.WorkerName
	}
	return dto.WorkAnalysisResponse{
		ID:                  a.ID,
		AnalysisID:          a.AnalysisID,
		TicketID:            a.TicketID,
		WorkerID:            a.WorkerID,
		WorkerName:          name,
		MaterialRequired:    a.MaterialRequired,
		MaterialDescription: a.MaterialDescription,
		Images:              images,
		ApprovalStatus:      a.ApprovalStatus,
		ApproverID:          a.ApproverID,
		ApprovedAt:          a.ApprovedAt,
		TicketStatus:        result.TicketStatus,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func userRef(ref service.UserRef) dto.UserRefResponse {
	return dto.UserRefResponse{ID: ref.ID, Name: ref.Name, Email: ref.Email}
}

func approvalResponse(view *service.ApprovalView) dto.ApprovalResponse {
	assignees := make([]dto.UserRefResponse, 0, len(view.Assignees))
	for _, ref := range view.Assignees {
		assignees = append(assignees, userRef(ref))
	}
	return dto.ApprovalResponse{
		ID:             view.Approval.ID,
		TicketID:       view.Approval.TicketID,
		ApprovalStatus: view.Approval.Status,
		Approver:       userRef(view.Approver),
		AssignedTo:     assignees,
		Remarks:        view.Approval.Remarks,
		ApprovedAt:     view.Approval.ApprovedAt,
		CreatedAt:      view.Approval.CreatedAt,
	}
}

func workLogResponse(entry *domain.WorkLog) dto.WorkLogResponse {
	return dto.WorkLogResponse{
		ID:         entry.ID,
		LogID:      entry.LogID,
		TicketID:   entry.TicketID,
		AnalysisID: entry.AnalysisID,
		WorkerID:   entry.WorkerID,
		WorkerName: entry.WorkerName,
		FromTime:   entry.FromTime,
		ToTime:     entry.ToTime,
		Duration:   entry.Duration,
		LogDate:    entry.LogDate.Format(logDateLayout),
		CreatedAt:  entry.CreatedAt,
	}
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		Status:        user.Status,
		DepartmentID:  user.DepartmentID,
		DesignationID: user.DesignationID,
		CreatedAt:     user.CreatedAt,
	}
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// pageParams converts page/page_size query values into limit and offset.
func pageParams(page, pageSize string) (limit, offset int) {
	p := parseInt(page, 1)
	size := parseInt(pageSize, 20)
	if size > 200 {
		size = 200
	}
	return size, (p - 1) * size
}
