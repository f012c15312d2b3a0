package document

import (
	"context"

	"github.com/rpggio/medchron/internal/domain/activity"
	"github.com/rpggio/medchron/internal/domain/project"
)

// Source loads the initial inclusion tree for a project.
type Source interface {
	LoadDocumentTree(ctx context.Context, projectID string) ([]Candidate, error)
}

// Runner starts a single-project run with a fixed amount of work.
type Runner interface {
	Run(id string, total int, by project.User) bool
}

// ActivityLogger records tree edits and runs.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.Entry) error
}
