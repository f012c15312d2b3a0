package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/medchron/internal/domain/document"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/stretchr/testify/require"
)

var seededAt = time.Date(2025, time.April, 2, 15, 4, 5, 0, time.UTC)

func catalog() []project.Project {
	at := seededAt
	return []project.Project{
		{
			ID:          "proj-2",
			Name:        "Ramos v. Northgate Superstore",
			Status:      project.InProgress(4, 20),
			InitiatedBy: &project.User{ID: "2", Name: "Marcus Bennett"},
			InitiatedAt: &at,
		},
		{ID: "proj-1", Name: "Baker v. Ridgeview Apartments", Status: project.NotInitiated()},
		{ID: "proj-3", Name: "Parker v. Sunrise Daycare Center", Status: project.Review(6), InitiatedAt: &at},
	}
}

func tree() []document.Candidate {
	at := seededAt
	return []document.Candidate{
		{ID: "folder-0", Name: "Discovery", Path: "/Discovery", IsFolder: true, Included: true, Children: []document.Candidate{
			{ID: "doc-0-0", Name: "Document_0_0.docx", Path: "/Discovery/Document_0_0.docx", Type: "DOCX", UploadedBy: "Olivia Carter", UploadedAt: &at},
			{ID: "doc-0-1", Name: "Smith_v_MercyHospital_Lab Results.pdf", Path: "/Discovery/Smith_v_MercyHospital_Lab Results.pdf", Type: "PDF", UploadedBy: "Harper Reed", UploadedAt: &at, Included: true},
		}},
		{ID: "folder-1", Name: "Depositions", Path: "/Depositions", IsFolder: true, Included: true, Children: []document.Candidate{
			{ID: "doc-1-0", Name: "Document_1_0.docx", Path: "/Depositions/Document_1_0.docx", Type: "DOCX", UploadedBy: "System Admin", UploadedAt: &at},
		}},
	}
}

func seed(t *testing.T, db *DB) {
	t.Helper()
	repo := NewProjectRepository(db)
	err := repo.ReplaceAll(context.Background(), catalog(), map[string][]document.Candidate{"proj-2": tree()})
	require.NoError(t, err)
}
