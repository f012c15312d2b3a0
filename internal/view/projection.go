// Package view derives dashboard pages and summary counts from a project
// collection. Every function here is pure.
package view

import (
	"slices"
	"strings"
	"time"

	"github.com/rpggio/medchron/internal/domain/project"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Page is one page of rows plus the totals needed to render a pager.
type Page struct {
	Rows         []project.Project `json:"rows"`
	TotalMatched int               `json:"total_matched"`
	TotalPages   int               `json:"total_pages"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
}

// IDs returns the ids of the visible rows in display order.
func (p Page) IDs() []string {
	ids := make([]string, 0, len(p.Rows))
	for _, row := range p.Rows {
		ids = append(ids, row.ID)
	}
	return ids
}

// Summary counts projects per status kind. Every kind is present.
type Summary map[project.StatusKind]int

// Summarize counts projects per status kind.
func Summarize(projects []project.Project) Summary {
	s := make(Summary, len(project.Kinds))
	for _, k := range project.Kinds {
		s[k] = 0
	}
	for _, p := range projects {
		s[p.Status.Kind]++
	}
	return s
}

// Project filters, sorts and paginates projects using English collation.
func Project(projects []project.Project, cfg Config) (Page, error) {
	return ProjectIn(language.English, projects, cfg)
}

// ProjectIn is Project with names collated for tag.
func ProjectIn(tag language.Tag, projects []project.Project, cfg Config) (Page, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return Page{}, err
	}

	rows := filter(projects, cfg)
	slices.SortStableFunc(rows, comparator(tag, cfg))

	start, end := pageBounds(len(rows), cfg.Page, cfg.PageSize)
	pages := len(rows) / cfg.PageSize
	if len(rows)%cfg.PageSize != 0 {
		pages++
	}

	return Page{
		Rows:         rows[start:end],
		TotalMatched: len(rows),
		TotalPages:   max(1, pages),
		Page:         cfg.Page,
		PageSize:     cfg.PageSize,
	}, nil
}

// pageBounds slices n rows for a 1-based page without overflowing on
// large page or size values.
func pageBounds(n, page, size int) (start, end int) {
	if page-1 > n/size {
		return n, n
	}
	start = min((page-1)*size, n)
	return start, start + min(size, n-start)
}

func filter(projects []project.Project, cfg Config) []project.Project {
	fold := cases.Fold()
	term := fold.String(cfg.Search)
	rows := make([]project.Project, 0, len(projects))
	for _, p := range projects {
		if len(cfg.Statuses) > 0 && !slices.Contains(cfg.Statuses, p.Status.Kind) {
			continue
		}
		if term != "" && !strings.Contains(fold.String(p.Name), term) {
			continue
		}
		rows = append(rows, p)
	}
	return rows
}

func comparator(tag language.Tag, cfg Config) func(a, b project.Project) int {
	col := collate.New(tag)
	return func(a, b project.Project) int {
		var c int
		switch cfg.SortBy {
		case SortByName:
			c = col.CompareString(a.Name, b.Name)
		case SortByInitiatedAt:
			c = initiatedAt(a).Compare(initiatedAt(b))
		case SortByStatus:
			c = strings.Compare(string(a.Status.Kind), string(b.Status.Kind))
		}
		if cfg.Direction == Desc {
			return -c
		}
		return c
	}
}

// initiatedAt treats a missing timestamp as the earliest possible time.
func initiatedAt(p project.Project) time.Time {
	if p.InitiatedAt == nil {
		return time.Time{}
	}
	return *p.InitiatedAt
}
