package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/deskflow/helpdesk-service/pkg/util/errorutil"
)

func TestValidateReportsMissingFieldsByJSONName(t *testing.T) {
	err := Validate(WorkLogRequest{TicketID: "T1", WorkerID: "W1", WorkerName: "Walt", FromTime: "09:00", ToTime: "10:00", LogDate: "2024-03-01"})
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "missing required fields: duration", de.Message)

	err = Validate(WorkLogRequest{})
	assert.Equal(t,
		"missing required fields: duration, from_time, log_date, ticket_id, to_time, worker_id, worker_name",
		apperrors.ToDomainError(err).Message)
}

func TestValidateOtherRules(t *testing.T) {
	err := Validate(UserRegisterRequest{Name: "N", Email: "not-an-email", Password: "longenough"})
	de := apperrors.ToDomainError(err)
	assert.Equal(t, "email must be a valid email address", de.Message)

	err = Validate(SetRoleRequest{Role: "OWNER"})
	assert.Equal(t, "role must be one of [USER WORKER MANAGER ADMIN]", apperrors.ToDomainError(err).Message)

	assert.NoError(t, Validate(SetRoleRequest{Role: "WORKER"}))
}

func TestAssigneeListAcceptsStringOrArray(t *testing.T) {
	var req ApprovalRequest
	require.NoError(t, json.Unmarshal([]byte(`{"assigned_to":"w1, w2,,"}`), &req))
	assert.Equal(t, AssigneeList{"w1", "w2"}, req.AssignedTo)

	require.NoError(t, json.Unmarshal([]byte(`{"assigned_to":[" w3 ",""]}`), &req))
	assert.Equal(t, AssigneeList{"w3"}, req.AssignedTo)

	assert.Error(t, json.Unmarshal([]byte(`{"assigned_to":42}`), &req))
}
