package project

import "context"

// Repository provides the seeded project catalog.
type Repository interface {
	List(ctx context.Context) ([]Project, error)
	Get(ctx context.Context, id string) (*Project, error)
}
