package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskflow/helpdesk-service/internal/domain"
	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

func validLog(ticketID string) WorkLogInput {
	return WorkLogInput{
		TicketID:   ticketID,
		WorkerID:   "W1",
		WorkerName: "Walt",
		FromTime:   "09:00",
		ToTime:     "11:30",
		Duration:   "2h30m",
		LogDate:    "2024-03-01",
	}
}

func TestRecordWorkLogRequiresFields(t *testing.T) {
	f := newFixture(t)
	input := validLog("T1")
	input.Duration = ""
	input.WorkerName = " "

	_, err := f.workLogs.Record(context.Background(), f.worker, input)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "missing required fields: duration, worker_name", de.Message)
	assert.Equal(t, []string{"duration", "worker_name"}, de.Details["fields"])
}

func TestRecordWorkLogStoresEntryVerbatim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.newTicket(t)

	entry, err := f.workLogs.Record(ctx, f.worker, validLog(ticket.ID))
	require.NoError(t, err)
	assert.Regexp(t, `^WL-[0-9a-f-]{36}$`, entry.LogID)
	assert.Equal(t, "2h30m", entry.Duration)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), entry.LogDate)

	input := validLog(ticket.ID)
	input.LogDate = "2024-03-02T15:04:05Z"
	entry, err = f.workLogs.Record(ctx, f.worker, input)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), entry.LogDate)

	input.LogDate = "yesterday"
	_, err = f.workLogs.Record(ctx, f.worker, input)
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)
}

func TestWorkLogListAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ticket := f.newTicket(t)
	analysis, err := f.analyses.Submit(ctx, f.worker, WorkAnalysisInput{TicketID: ticket.ID, MaterialRequired: domain.MaterialRequiredNo})
	require.NoError(t, err)

	first, err := f.workLogs.Record(ctx, f.worker, validLog(ticket.ID))
	require.NoError(t, err)
	withAnalysis := validLog(ticket.ID)
	withAnalysis.AnalysisID = analysis.Analysis.AnalysisID
	second, err := f.workLogs.Record(ctx, f.worker, withAnalysis)
	require.NoError(t, err)

	byTicket, err := f.workLogs.List(ctx, ticket.ID, "")
	require.NoError(t, err)
	require.Len(t, byTicket, 2)
	assert.Equal(t, second.LogID, byTicket[0].LogID)
	assert.Equal(t, first.LogID, byTicket[1].LogID)

	byAnalysis, err := f.workLogs.List(ctx, "", analysis.Analysis.AnalysisID)
	require.NoError(t, err)
	require.Len(t, byAnalysis, 1)
	assert.Equal(t, second.LogID, byAnalysis[0].LogID)

	_, err = f.workLogs.List(ctx, "", "")
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)

	require.NoError(t, f.workLogs.Delete(ctx, first.LogID))
	err = f.workLogs.Delete(ctx, first.LogID)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}

func TestRecordWorkLogUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.workLogs.Record(ctx, f.worker, validLog("missing"))
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)

	ticket := f.newTicket(t)
	input := validLog(ticket.ID)
	input.AnalysisID = "WA-missing"
	_, err = f.workLogs.Record(ctx, f.worker, input)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}
