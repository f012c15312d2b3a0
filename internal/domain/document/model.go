package document

import "time"

// Candidate is one node of a project's inclusion tree. Top-level nodes are
// folders; their children are documents.
type Candidate struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Path       string      `json:"path"`
	Type       string      `json:"type,omitempty"`
	UploadedBy string      `json:"uploaded_by,omitempty"`
	UploadedAt *time.Time  `json:"uploaded_at,omitempty"`
	Included   bool        `json:"included"`
	IsFolder   bool        `json:"is_folder,omitempty"`
	Children   []Candidate `json:"children,omitempty"`
}

// RunSnapshot records the inclusion choices a run was started with.
type RunSnapshot struct {
	ID             string    `json:"id"`
	ProjectID      string    `json:"project_id"`
	IncludedDocIDs []string  `json:"included_doc_ids"`
	ExcludedDocIDs []string  `json:"excluded_doc_ids"`
	InitiatedBy    string    `json:"initiated_by"`
	InitiatedAt    time.Time `json:"initiated_at"`
	Total          int       `json:"total"`
}
