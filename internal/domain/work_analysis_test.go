package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMaterialRequired(t *testing.T) {
	tests := []struct {
		raw     string
		want    MaterialRequired
		wantErr bool
	}{
		{raw: "Yes", want: MaterialRequiredYes},
		{raw: "no", want: MaterialRequiredNo},
		{raw: " YES ", want: MaterialRequiredYes},
		{raw: "maybe", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseMaterialRequired(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMaterialRequired)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMaterialRequiredStatusName(t *testing.T) {
	name, ok := MaterialRequiredYes.StatusName()
	assert.True(t, ok)
	assert.Equal(t, StatusNameMaterialRequest, name)

	name, ok = MaterialRequiredNo.StatusName()
	assert.True(t, ok)
	assert.Equal(t, StatusNameMaterialApproved, name)

	_, ok = MaterialRequired("Maybe").StatusName()
	assert.False(t, ok)
}

func TestMaterialRequiredDescription(t *testing.T) {
	assert.Equal(t, "need bolts", MaterialRequiredYes.Description(" need bolts "))
	assert.Equal(t, "", MaterialRequiredNo.Description("need bolts"))
}

func TestWorkAnalysisResubmit(t *testing.T) {
	now := time.Now()
	wa := &WorkAnalysis{
		MaterialRequired:    MaterialRequiredYes,
		MaterialDescription: "need bolts",
		Images:              []string{"a.png", "b.png"},
		WorkerName:          "Wanda",
	}

	wa.Resubmit(WorkAnalysis{MaterialRequired: MaterialRequiredNo, MaterialDescription: "ignored"}, now)

	assert.Equal(t, MaterialRequiredNo, wa.MaterialRequired)
	assert.Empty(t, wa.MaterialDescription)
	assert.Equal(t, []string{"a.png", "b.png"}, wa.Images)
	assert.Equal(t, "Wanda", wa.WorkerName)
	assert.Equal(t, now, wa.UpdatedAt)

	wa.Resubmit(WorkAnalysis{MaterialRequired: MaterialRequiredYes, MaterialDescription: "pipes", Images: []string{"c.png"}, WorkerName: "Walt"}, now)
	assert.Equal(t, []string{"c.png"}, wa.Images)
	assert.Equal(t, "pipes", wa.MaterialDescription)
	assert.Equal(t, "Walt", wa.WorkerName)
}

func TestWorkAnalysisDecide(t *testing.T) {
	now := time.Now()
	wa := &WorkAnalysis{ApprovalStatus: AnalysisPending}

	wa.Decide(AnalysisRejected, "mgr-1", now)

	assert.Equal(t, AnalysisRejected, wa.ApprovalStatus)
	require.NotNil(t, wa.ApproverID)
	assert.Equal(t, "mgr-1", *wa.ApproverID)
	require.NotNil(t, wa.ApprovedAt)
	assert.Equal(t, now, *wa.ApprovedAt)
}
