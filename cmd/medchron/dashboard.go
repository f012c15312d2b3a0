package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rpggio/medchron/internal/app"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/logging"
	"github.com/rpggio/medchron/internal/render"
	"github.com/rpggio/medchron/internal/view"
	"github.com/spf13/cobra"
)

type dashboardFlags struct {
	search   string
	statuses []string
	sortBy   string
	desc     bool
	page     int
	pageSize int
	initiate int
	wait     time.Duration
	noColor  bool
}

func newDashboardCommand(ctx *commandContext) *cobra.Command {
	var flags dashboardFlags

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Seed a catalog and print one dashboard page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg.Metrics.Enabled = false

			// Info lines would interleave with the table.
			level := cfg.Log.Level
			if level == "info" {
				level = "warn"
			}
			logger := logging.New(cmd.ErrOrStderr(), level)

			a, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			return runDashboard(cmd.Context(), a, flags, cmd.OutOrStdout(), logger)
		},
	}

	cmd.Flags().StringVarP(&flags.search, "search", "s", "", "Case-insensitive name filter")
	cmd.Flags().StringSliceVar(&flags.statuses, "status", nil, "Status kinds to show (repeatable)")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(view.SortByInitiatedAt), "Sort key: name, initiated_at or status")
	cmd.Flags().BoolVar(&flags.desc, "desc", false, "Sort descending")
	cmd.Flags().IntVar(&flags.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "Rows per page (default from config)")
	cmd.Flags().IntVar(&flags.initiate, "initiate", 0, "Initiate this many not-initiated projects first")
	cmd.Flags().DurationVar(&flags.wait, "wait", 0, "Let the simulation run this long before printing")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	return cmd
}

func runDashboard(ctx context.Context, a *app.App, flags dashboardFlags, out io.Writer, logger *slog.Logger) error {
	pageSize := flags.pageSize
	if pageSize <= 0 {
		pageSize = a.Config.Dashboard.PageSize
	}
	cfg := view.Config{
		Search:    flags.search,
		SortBy:    view.SortKey(flags.sortBy),
		Direction: view.Asc,
		Page:      flags.page,
		PageSize:  pageSize,
	}
	if flags.desc {
		cfg.Direction = view.Desc
	}
	for _, s := range flags.statuses {
		kind, err := project.ParseKind(s)
		if err != nil {
			return err
		}
		cfg.Statuses = append(cfg.Statuses, kind)
	}
	cfg, err := cfg.Normalize()
	if err != nil {
		return err
	}

	var selected view.Selection
	if flags.initiate > 0 {
		candidates, err := a.Dashboard.List(view.Config{
			Statuses: []project.StatusKind{project.KindNotInitiated},
			SortBy:   view.SortByName,
			Page:     1,
			PageSize: flags.initiate,
		})
		if err != nil {
			return err
		}
		ids := a.Dashboard.Initiate(ctx, candidates.IDs())
		selected = view.NewSelection(ids...)
		logger.Info("initiated projects", "count", len(ids))
	}

	if flags.wait > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(flags.wait):
		}
	}

	page, err := a.Dashboard.List(cfg)
	if err != nil {
		return err
	}
	opts := render.Options{Color: !flags.noColor && shouldColorize(out)}
	fmt.Fprintln(out, render.Summary(a.Dashboard.Summary(), opts))
	fmt.Fprintln(out, render.Page(page, selected, opts))
	return nil
}

func shouldColorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
