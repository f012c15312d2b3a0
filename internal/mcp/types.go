package mcp

import (
	"encoding/json"
	"time"

	"github.com/rpggio/medchron/internal/domain/activity"
	"github.com/rpggio/medchron/internal/domain/document"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/view"
)

type ListProjectsParams struct {
	Search    string               `json:"search,omitempty"`
	Statuses  []project.StatusKind `json:"statuses,omitempty"`
	SortBy    view.SortKey         `json:"sort_by,omitempty"`
	Direction view.Direction       `json:"sort_direction,omitempty"`
	Page      int                  `json:"page,omitempty"`
	PageSize  int                  `json:"page_size,omitempty"`
}

func (p ListProjectsParams) config() view.Config {
	return view.Config{
		Search:    p.Search,
		Statuses:  p.Statuses,
		SortBy:    p.SortBy,
		Direction: p.Direction,
		Page:      p.Page,
		PageSize:  p.PageSize,
	}
}

type GetProjectParams struct {
	ID string `json:"id"`
}

type ToggleSelectionParams struct {
	ProjectID string `json:"project_id"`
}

type SelectAllOnPageParams struct {
	// IDs overrides the rows of the last listed page.
	IDs []string `json:"ids,omitempty"`
}

type InitiateProjectsParams struct {
	IDs []string `json:"ids"`
}

type SetStatusParams struct {
	ID     string         `json:"id"`
	Status project.Status `json:"status"`
}

type DocumentTreeParams struct {
	ProjectID string `json:"project_id"`
}

type ToggleFolderParams struct {
	ProjectID string `json:"project_id"`
	FolderID  string `json:"folder_id"`
}

type ToggleDocumentParams struct {
	ProjectID  string `json:"project_id"`
	DocumentID string `json:"document_id"`
	ParentID   string `json:"parent_id,omitempty"`
}

type RunProjectParams struct {
	ProjectID string `json:"project_id"`
}

type GetRecentActivityParams struct {
	ProjectID string `json:"project_id,omitempty"`
	Type      string `json:"type,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

type ProjectResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Status      project.Status `json:"status"`
	StatusLabel string         `json:"status_label"`
	InitiatedBy *project.User  `json:"initiated_by,omitempty"`
	InitiatedAt *time.Time     `json:"initiated_at,omitempty"`
	Selected    bool           `json:"selected"`
}

type ListProjectsResponse struct {
	Rows         []ProjectResponse `json:"rows"`
	TotalMatched int               `json:"total_matched"`
	TotalPages   int               `json:"total_pages"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
	View         view.Config       `json:"view"`
	Selected     []string          `json:"selected"`
}

type SummaryResponse struct {
	Counts view.Summary `json:"counts"`
	Total  int          `json:"total"`
}

type SelectionResponse struct {
	Selected []string `json:"selected"`
	Count    int      `json:"count"`
}

type InitiateResponse struct {
	Initiated []string `json:"initiated"`
	Count     int      `json:"count"`
}

type RefreshResponse struct {
	Count int `json:"count"`
}

type DocumentTreeResponse struct {
	ProjectID     string                `json:"project_id"`
	Tree          []document.Candidate  `json:"tree"`
	IncludedCount int                   `json:"included_count"`
	LastRun       *document.RunSnapshot `json:"last_run,omitempty"`
}

type ActivityEntryResponse struct {
	ID        int64           `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Type      activity.Type   `json:"type"`
	ProjectID string          `json:"project_id,omitempty"`
	Summary   string          `json:"summary"`
	Details   json.RawMessage `json:"details,omitempty"`
}
