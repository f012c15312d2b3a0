package view

import (
	"errors"
	"fmt"

	"github.com/rpggio/medchron/internal/domain/project"
)

// ErrInvalidConfig indicates an unknown sort key or direction.
var ErrInvalidConfig = errors.New("invalid view config")

// SortKey selects the column rows are ordered by.
type SortKey string

const (
	SortByName        SortKey = "name"
	SortByInitiatedAt SortKey = "initiated_at"
	SortByStatus      SortKey = "status"
)

// Direction is the sort order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DefaultPageSize matches the dashboard's initial page size.
const DefaultPageSize = 10

// Config is the caller-supplied filter, sort and page for one projection.
type Config struct {
	Search    string               `json:"search,omitempty"`
	Statuses  []project.StatusKind `json:"statuses,omitempty"`
	SortBy    SortKey              `json:"sort_by,omitempty"`
	Direction Direction            `json:"sort_direction,omitempty"`
	Page      int                  `json:"page,omitempty"`
	PageSize  int                  `json:"page_size,omitempty"`
}

// Normalize fills unset fields with the dashboard defaults (newest
// initiations first, page 1, ten rows) and rejects unknown values.
func (c Config) Normalize() (Config, error) {
	switch c.SortBy {
	case "":
		c.SortBy = SortByInitiatedAt
		if c.Direction == "" {
			c.Direction = Desc
		}
	case SortByName, SortByInitiatedAt, SortByStatus:
	default:
		return Config{}, fmt.Errorf("%w: sort key %q", ErrInvalidConfig, c.SortBy)
	}
	switch c.Direction {
	case "":
		c.Direction = Asc
	case Asc, Desc:
	default:
		return Config{}, fmt.Errorf("%w: direction %q", ErrInvalidConfig, c.Direction)
	}
	for _, k := range c.Statuses {
		if !k.Valid() {
			return Config{}, fmt.Errorf("%w: status %q", ErrInvalidConfig, k)
		}
	}
	if c.Page < 1 {
		c.Page = 1
	}
	if c.PageSize < 1 {
		c.PageSize = DefaultPageSize
	}
	return c, nil
}

// ToggleSort mirrors clicking a column header: the same key flips the
// direction, a new key starts ascending.
func (c Config) ToggleSort(key SortKey) Config {
	if c.SortBy == key {
		if c.Direction == Asc {
			c.Direction = Desc
		} else {
			c.Direction = Asc
		}
		return c
	}
	c.SortBy = key
	c.Direction = Asc
	return c
}
