package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/repository"
)

type approvalRepo struct{ s *Store }

func (r *approvalRepo) Create(_ context.Context, approval *domain.Approval) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	approval.ID = uuid.NewString()
	approval.CreatedAt = r.s.now()
	stored := *approval
	stored.AssigneeIDs = cloneStrings(approval.AssigneeIDs)
	r.s.approvals[stored.ID] = &record[domain.Approval]{seq: r.s.nextSeq(), value: stored}
	return nil
}

func (r *approvalRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Approval, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := newestFirst(r.s.approvals, func(a *domain.Approval) bool { return a.TicketID == ticketID })
	for i := range out {
		out[i].AssigneeIDs = cloneStrings(out[i].AssigneeIDs)
	}
	return out, nil
}

type workLogRepo struct{ s *Store }

func (r *workLogRepo) Create(_ context.Context, log *domain.WorkLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.workLogs {
		if rec.value.LogID == log.LogID {
			return repository.ErrDuplicate
		}
	}
	log.ID = uuid.NewString()
	log.CreatedAt = r.s.now()
	log.UpdatedAt = log.CreatedAt
	stored := *log
	stored.AnalysisID = cloneRef(log.AnalysisID)
	r.s.workLogs[stored.LogID] = &record[domain.WorkLog]{seq: r.s.nextSeq(), value: stored}
	return nil
}

func (r *workLogRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.WorkLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return newestFirst(r.s.workLogs, func(l *domain.WorkLog) bool { return l.TicketID == ticketID }), nil
}

func (r *workLogRepo) ListByAnalysis(_ context.Context, analysisID string) ([]domain.WorkLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return newestFirst(r.s.workLogs, func(l *domain.WorkLog) bool {
		return l.AnalysisID != nil && *l.AnalysisID == analysisID
	}), nil
}

func (r *workLogRepo) Delete(_ context.Context, logID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.workLogs[logID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.workLogs, logID)
	return nil
}

type historyRepo struct{ s *Store }

func (r *historyRepo) Create(_ context.Context, history *domain.TicketHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	history.ID = uuid.NewString()
	history.CreatedAt = r.s.now()
	r.s.history[history.ID] = &record[domain.TicketHistory]{seq: r.s.nextSeq(), value: *history}
	return nil
}

func (r *historyRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := newestFirst(r.s.history, func(h *domain.TicketHistory) bool { return h.TicketID == ticketID })
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
