// Package seed generates the mock case catalog.
package seed

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/rpggio/medchron/internal/domain/document"
	"github.com/rpggio/medchron/internal/domain/project"
)

// DefaultProjectCount matches the size of the demo catalog.
const DefaultProjectCount = 56

// Generator produces mock projects and document trees.
type Generator struct {
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator returns a generator drawing from rnd. A nil rnd is seeded
// randomly; a nil now uses time.Now.
func NewGenerator(rnd *rand.Rand, now func() time.Time) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rnd: rnd, now: now}
}

// Projects returns count projects named after the demo cases, newest
// initiation first and never-initiated projects last.
func (g *Generator) Projects(count int) []project.Project {
	end := g.now().UTC()
	start := end.AddDate(0, -6, 0)

	projects := make([]project.Project, 0, count)
	for i := range count {
		p := project.Project{
			ID:     fmt.Sprintf("proj-%d", i+1),
			Name:   fmt.Sprintf("Case %d v. Corporation", i+1),
			Status: g.status(),
		}
		if i < len(projectNames) {
			p.Name = projectNames[i]
		}
		if p.Status.Kind != project.KindNotInitiated {
			user := users[g.rnd.IntN(len(users))]
			at := g.between(start, end)
			p.InitiatedBy = &user
			p.InitiatedAt = &at
		}
		projects = append(projects, p)
	}

	slices.SortStableFunc(projects, func(a, b project.Project) int {
		switch {
		case a.InitiatedAt == nil && b.InitiatedAt == nil:
			return 0
		case a.InitiatedAt == nil:
			return 1
		case b.InitiatedAt == nil:
			return -1
		}
		return cmp.Compare(b.InitiatedAt.UnixNano(), a.InitiatedAt.UnixNano())
	})
	return projects
}

// Documents returns one folder per demo folder, each holding two to nine
// documents. Medical documents start included.
func (g *Generator) Documents() []document.Candidate {
	end := g.now().UTC()
	start := time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	tree := make([]document.Candidate, 0, len(folders))
	for fi, name := range folders {
		folder := document.Candidate{
			ID:       fmt.Sprintf("folder-%d", fi),
			Name:     name,
			Path:     "/" + name,
			IsFolder: true,
			Included: true,
		}
		n := 2 + g.rnd.IntN(8)
		folder.Children = make([]document.Candidate, 0, n)
		for di := range n {
			medical := name == medicalFolder || g.rnd.Float64() > 0.7
			file := fmt.Sprintf("Document_%d_%d.docx", fi, di)
			if medical {
				file = fmt.Sprintf("Smith_v_MercyHospital_%s.pdf", medicalDocTypes[g.rnd.IntN(len(medicalDocTypes))])
			}
			docType := "DOCX"
			if strings.HasSuffix(file, ".pdf") {
				docType = "PDF"
			}
			at := g.between(start, end)
			folder.Children = append(folder.Children, document.Candidate{
				ID:         fmt.Sprintf("doc-%d-%d", fi, di),
				Name:       file,
				Path:       "/" + name + "/" + file,
				Type:       docType,
				UploadedBy: users[g.rnd.IntN(len(users))].Name,
				UploadedAt: &at,
				Included:   medical,
			})
		}
		tree = append(tree, folder)
	}
	return tree
}

// status draws a status with the demo distribution: half completed, then
// in progress, pending, review and not initiated.
func (g *Generator) status() project.Status {
	r := g.rnd.Float64()
	switch {
	case r < 0.5:
		return project.Completed()
	case r < 0.65:
		total := 10 + g.rnd.IntN(50)
		return project.InProgress(g.rnd.IntN(total), total)
	case r < 0.75:
		return project.Pending()
	case r < 0.85:
		return project.Review(1 + g.rnd.IntN(15))
	default:
		return project.NotInitiated()
	}
}

func (g *Generator) between(start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(g.rnd.Int64N(int64(span)))).Truncate(time.Second)
}
