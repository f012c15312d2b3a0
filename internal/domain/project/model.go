package project

import "time"

// User identifies who initiated a run.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is a tracked case with a processing status.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      Status     `json:"status"`
	InitiatedBy *User      `json:"initiated_by,omitempty"`
	InitiatedAt *time.Time `json:"initiated_at,omitempty"`
}

// Initiated reports whether the project has ever been started.
func (p Project) Initiated() bool {
	return p.InitiatedAt != nil
}

// WithStatus returns a copy of the project carrying status.
func (p Project) WithStatus(status Status) Project {
	p.Status = status
	return p
}
