package dashboard

import (
	"context"

	"github.com/rpggio/medchron/internal/domain/activity"
	"github.com/rpggio/medchron/internal/domain/project"
)

// ProjectLoader reads the current catalog.
type ProjectLoader interface {
	LoadProjects(ctx context.Context) ([]project.Project, error)
}

// Reseeder regenerates the catalog before it is loaded.
type Reseeder interface {
	Reseed(ctx context.Context) error
}

// TreeCache drops cached document trees after a refresh.
type TreeCache interface {
	Forget()
}

// ActivityLogger records dashboard events.
type ActivityLogger interface {
	LogActivity(ctx context.Context, entry *activity.Entry) error
}
