package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/bookmedia/internal/formatter"
	"github.com/desertthunder/bookmedia/internal/models"
	"github.com/desertthunder/bookmedia/internal/services"
	"github.com/desertthunder/bookmedia/internal/shared"
)

// loadDashboard computes the dashboard now, or at noon of --now when set.
func (r *Runner) loadDashboard(ctx context.Context, cmd *cli.Command) (*services.DashboardView, error) {
	if err := r.open(ctx); err != nil {
		return nil, err
	}

	raw := cmd.String("now")
	if raw == "" {
		return r.dashboard.Load(ctx)
	}
	day, err := models.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: --now: %v", shared.ErrInvalidFlag, err)
	}
	return r.dashboard.LoadAt(ctx, day.Time().Add(12*time.Hour))
}

// Stats prints the reading dashboard as text, Markdown or JSON.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("json") && cmd.Bool("markdown") {
		return fmt.Errorf("%w: --json and --markdown are mutually exclusive", shared.ErrInvalidFlag)
	}

	view, err := r.loadDashboard(ctx, cmd)
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(view.Snapshot, true)
	case cmd.Bool("markdown"):
		return r.writeBytes(formatter.SnapshotToMarkdown(view.Snapshot))
	}

	if view.User != nil {
		r.writePlainHeader("Reading Stats for " + view.User.Name)
	} else {
		r.writePlainHeader("Reading Stats")
	}
	return r.writeBytes(formatter.SnapshotToText(view.Snapshot))
}

// Achievements prints unlocked and locked achievements with the point total and level.
func (r *Runner) Achievements(ctx context.Context, cmd *cli.Command) error {
	view, err := r.loadDashboard(ctx, cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(view.Achievements, true)
	}

	r.writePlainHeader("Achievements")
	return r.writeBytes(formatter.AchievementsToText(view.Achievements))
}
