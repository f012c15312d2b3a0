package project_test

import (
	"encoding/json"
	"testing"

	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func TestStatus_JSONOmitsForeignFields(t *testing.T) {
	data, err := json.Marshal(project.InProgress(0, 20))
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"in_progress","processed":0,"total":20}`, string(data))

	data, err = json.Marshal(project.Review(4))
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"review","pending_count":4}`, string(data))

	data, err = json.Marshal(project.Completed())
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"completed"}`, string(data))
}

func TestStatus_UnmarshalValidates(t *testing.T) {
	var st project.Status
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"in_progress","processed":3,"total":9}`), &st))
	require.Equal(t, project.InProgress(3, 9), st)

	err := json.Unmarshal([]byte(`{"kind":"in_progress","processed":10,"total":9}`), &st)
	require.ErrorIs(t, err, project.ErrInvalidStatus)

	err = json.Unmarshal([]byte(`{"kind":"archived"}`), &st)
	require.ErrorIs(t, err, project.ErrInvalidStatus)
}

func TestStatus_Label(t *testing.T) {
	require.Equal(t, "In progress (3/20)", project.InProgress(3, 20).Label())
	require.Equal(t, "Review (2)", project.Review(2).Label())
	require.Equal(t, "Not initiated", project.NotInitiated().Label())
	require.Equal(t, "Complete", project.Completed().Label())
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name  string
		from  project.Status
		to    project.Status
		valid bool
	}{
		{"initiate", project.NotInitiated(), project.Pending(), true},
		{"reinitiate completed", project.Completed(), project.Pending(), true},
		{"start", project.Pending(), project.InProgress(0, 10), true},
		{"start mid-way", project.Pending(), project.InProgress(4, 10), false},
		{"tick", project.InProgress(2, 10), project.InProgress(5, 10), true},
		{"tick backwards", project.InProgress(5, 10), project.InProgress(2, 10), false},
		{"total changes", project.InProgress(2, 10), project.InProgress(3, 11), false},
		{"finish", project.InProgress(9, 10), project.Completed(), true},
		{"skip to completed", project.Pending(), project.Completed(), false},
		{"back to review", project.Completed(), project.Review(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := project.ValidateTransition(tt.from, tt.to)
			if tt.valid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, project.ErrInvalidTransition)
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := project.ParseKind("review")
	require.NoError(t, err)
	require.Equal(t, project.KindReview, k)

	_, err = project.ParseKind("done")
	require.ErrorIs(t, err, project.ErrInvalidStatus)
}
