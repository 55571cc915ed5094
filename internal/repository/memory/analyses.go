package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/repository"
)

type analysisRepo struct{ s *Store }

func (r *analysisRepo) Upsert(_ context.Context, analysis *domain.WorkAnalysis) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	for _, rec := range r.s.analyses {
		if rec.value.TicketID == analysis.TicketID {
			rec.value.Resubmit(*analysis, now)
			*analysis = cloneAnalysis(rec.value)
			return false, nil
		}
	}
	for _, rec := range r.s.analyses {
		if rec.value.AnalysisID == analysis.AnalysisID {
			return false, repository.ErrDuplicate
		}
	}
	stored := cloneAnalysis(*analysis)
	stored.ID = uuid.NewString()
	stored.MaterialDescription = stored.MaterialRequired.Description(stored.MaterialDescription)
	if stored.Images == nil {
		stored.Images = []string{}
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.s.analyses[stored.ID] = &record[domain.WorkAnalysis]{seq: r.s.nextSeq(), value: stored}
	*analysis = cloneAnalysis(stored)
	return true, nil
}

func (r *analysisRepo) UpdateDecision(_ context.Context, analysis *domain.WorkAnalysis) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.analyses {
		if rec.value.AnalysisID == analysis.AnalysisID {
			analysis.UpdatedAt = r.s.now()
			rec.value.ApprovalStatus = analysis.ApprovalStatus
			rec.value.ApproverID = cloneRef(analysis.ApproverID)
			rec.value.ApprovedAt = analysis.ApprovedAt
			rec.value.UpdatedAt = analysis.UpdatedAt
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *analysisRepo) GetByAnalysisID(_ context.Context, analysisID string) (*domain.WorkAnalysis, error) {
	return r.find(func(a *domain.WorkAnalysis) bool { return a.AnalysisID == analysisID })
}

func (r *analysisRepo) GetByTicket(_ context.Context, ticketID string) (*domain.WorkAnalysis, error) {
	return r.find(func(a *domain.WorkAnalysis) bool { return a.TicketID == ticketID })
}

func (r *analysisRepo) List(_ context.Context, limit, offset int) ([]domain.WorkAnalysis, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := page(newestFirst(r.s.analyses, nil), limit, offset)
	for i := range out {
		out[i] = cloneAnalysis(out[i])
	}
	return out, nil
}

func (r *analysisRepo) find(match func(*domain.WorkAnalysis) bool) (*domain.WorkAnalysis, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.analyses {
		if match(&rec.value) {
			analysis := cloneAnalysis(rec.value)
			return &analysis, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func cloneAnalysis(a domain.WorkAnalysis) domain.WorkAnalysis {
	a.Images = cloneStrings(a.Images)
	a.ApproverID = cloneRef(a.ApproverID)
	if a.ApprovedAt != nil {
		at := *a.ApprovedAt
		a.ApprovedAt = &at
	}
	return a
}
