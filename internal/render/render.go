// Package render draws dashboard projections as terminal tables.
package render

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/view"
)

// Options controls table appearance.
type Options struct {
	// Color adds ANSI colors and box-drawing borders.
	Color bool
	// Now anchors relative times; defaults to time.Now.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) writer() table.Writer {
	tw := table.NewWriter()
	if o.Color {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	return tw
}

// Page renders one page of projects. Rows in selected are checked.
func Page(page view.Page, selected view.Selection, opts Options) string {
	tw := opts.writer()
	tw.AppendHeader(table.Row{"", "Name", "Status", "Initiated by", "Initiated"})

	now := opts.now()
	for _, p := range page.Rows {
		check := "[ ]"
		if selected.Has(p.ID) {
			check = "[x]"
		}
		by, at := "-", "-"
		if p.InitiatedBy != nil {
			by = p.InitiatedBy.Name
		}
		if p.InitiatedAt != nil {
			at = humanize.RelTime(*p.InitiatedAt, now, "ago", "from now")
		}
		tw.AppendRow(table.Row{check, p.Name, statusCell(p.Status, opts.Color), by, at})
	}
	tw.AppendFooter(table.Row{
		"",
		fmt.Sprintf("Page %d of %d", page.Page, page.TotalPages),
		fmt.Sprintf("%s matched", humanize.Comma(int64(page.TotalMatched))),
		fmt.Sprintf("%d selected", selected.Len()),
		"",
	})
	return tw.Render()
}

// Summary renders the per-kind counts in dashboard order.
func Summary(summary view.Summary, opts Options) string {
	tw := opts.writer()
	tw.AppendHeader(table.Row{"Status", "Projects"})
	total := 0
	for _, kind := range project.Kinds {
		n := summary[kind]
		total += n
		tw.AppendRow(table.Row{kindLabel(kind, opts.Color), n})
	}
	tw.AppendFooter(table.Row{"Total", total})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	return tw.Render()
}

func statusCell(s project.Status, color bool) string {
	return colorize(s.Kind, s.Label(), color)
}

func kindLabel(kind project.StatusKind, color bool) string {
	var label string
	switch kind {
	case project.KindCompleted:
		label = "Complete"
	case project.KindInProgress:
		label = "In progress"
	case project.KindPending:
		label = "Pending"
	case project.KindNotInitiated:
		label = "Not initiated"
	case project.KindReview:
		label = "Review"
	default:
		label = string(kind)
	}
	return colorize(kind, label, color)
}

func colorize(kind project.StatusKind, s string, color bool) string {
	if !color {
		return s
	}
	var c text.Colors
	switch kind {
	case project.KindCompleted:
		c = text.Colors{text.FgGreen}
	case project.KindInProgress:
		c = text.Colors{text.FgBlue}
	case project.KindPending:
		c = text.Colors{text.FgYellow}
	case project.KindReview:
		c = text.Colors{text.FgMagenta}
	default:
		return s
	}
	return c.Sprint(s)
}
