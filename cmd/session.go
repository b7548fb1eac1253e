package main

import (
	"context"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/bookmedia/internal/formatter"
)

const weekBarWidth = 20

// SessionLog records a reading session for today.
func (r *Runner) SessionLog(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	session, err := r.planner.LogSession(ctx, int(cmd.Int("minutes")), int(cmd.Int("pages")), cmd.String("book"))
	if err != nil {
		return err
	}

	today, err := r.planner.Today(ctx)
	if err != nil {
		return err
	}

	r.writePlain("✓ Logged %s (%d pages) of %s\n", formatter.Minutes(session.Minutes), session.Pages, session.BookTitle)
	r.writePlain("Today: %s / %s %s\n", formatter.Minutes(today.Minutes), formatter.Minutes(today.Goal),
		formatter.ProgressBar(today.Percent, weekBarWidth))
	if today.Complete {
		r.writePlain("✓ Daily goal reached\n")
	}
	return nil
}

// SessionToday prints today's sessions and the daily goal progress.
func (r *Runner) SessionToday(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	today, err := r.planner.Today(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(today, true)
	}

	r.writePlainHeader("Today, " + today.Date.String())
	r.writePlain("%s / %s %s %d%%\n", formatter.Minutes(today.Minutes), formatter.Minutes(today.Goal),
		formatter.ProgressBar(today.Percent, weekBarWidth), today.Percent)
	if today.Complete {
		r.writePlain("✓ Daily goal reached\n")
	}

	if len(today.Sessions) == 0 {
		r.writePlainln("No sessions logged today.")
		return nil
	}

	r.writePlainln("Sessions:")
	for _, s := range today.Sessions {
		r.writePlain("  %s  %3d pages  %s\n", formatter.Minutes(s.Minutes), s.Pages, s.BookTitle)
	}
	return nil
}

// SessionWeek prints minutes per day for the last seven days as a bar chart.
func (r *Runner) SessionWeek(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	week, err := r.planner.Week(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(week, true)
	}

	peak := 0
	for _, d := range week {
		peak = max(peak, d.Minutes)
	}

	r.writePlainHeader("This Week")
	for _, d := range week {
		r.writePlain("%s %s %s\n", d.Date.Time().Format("Mon 01-02"), formatter.Bar(d.Minutes, peak, weekBarWidth),
			formatter.Minutes(d.Minutes))
	}
	return nil
}

// SessionList prints every logged session, newest first.
func (r *Runner) SessionList(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(ctx); err != nil {
		return err
	}

	sessions, err := r.planner.Sessions(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(sessions, true)
	}

	if len(sessions) == 0 {
		r.writePlain("No sessions logged yet.\n")
		return nil
	}

	slices.Reverse(sessions)
	for _, s := range sessions {
		r.writePlain("%s  %s  %3d pages  %s\n", s.Date, formatter.Minutes(s.Minutes), s.Pages, s.BookTitle)
	}
	return nil
}
