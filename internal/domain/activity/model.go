package activity

import "time"

// Type represents the type of activity event
type Type string

const (
	TypeStatusChanged     Type = "status_changed"
	TypeProjectsInitiated Type = "projects_initiated"
	TypeRunStarted        Type = "run_started"
	TypeProjectsRefreshed Type = "projects_refreshed"
	TypeDocumentsUpdated  Type = "documents_updated"
)

// Valid reports whether t is a known activity type.
func (t Type) Valid() bool {
	switch t {
	case TypeStatusChanged, TypeProjectsInitiated, TypeRunStarted, TypeProjectsRefreshed, TypeDocumentsUpdated:
		return true
	}
	return false
}

// Entry represents an event in the activity log
type Entry struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id,omitempty"`
	Type      Type      `json:"type"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details,omitempty"` // JSON string
	CreatedAt time.Time `json:"created_at"`
}
