package overdue

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/harrisonrobin/todoist-organizer/pkg/config"
	"github.com/harrisonrobin/todoist-organizer/pkg/model"
	"github.com/harrisonrobin/todoist-organizer/pkg/util"
	"github.com/sirupsen/logrus"
)

const contentWidth = 60

type TaskService interface {
	List(ctx context.Context, filter string) ([]model.Task, error)
	SetDueDate(ctx context.Context, taskID, date string) error
}

// Bumper moves overdue tasks of the target project to the next business day.
// After business hours it also moves the tasks still due today.
type Bumper struct {
	cfg   *config.Config
	tasks TaskService
	out   io.Writer
	log   logrus.FieldLogger

	// Now is the clock; tests replace it.
	Now func() time.Time
}

func NewBumper(cfg *config.Config, tasks TaskService, out io.Writer, log logrus.FieldLogger) *Bumper {
	return &Bumper{cfg: cfg, tasks: tasks, out: out, log: log, Now: time.Now}
}

// NextBusinessDay returns the day tasks are moved to: Friday and Saturday
// roll over to Monday, every other day moves one day ahead. Holidays are not
// considered.
func NextBusinessDay(now time.Time) time.Time {
	switch now.Weekday() {
	case time.Friday:
		return now.AddDate(0, 0, 3)
	case time.Saturday:
		return now.AddDate(0, 0, 2)
	default:
		return now.AddDate(0, 0, 1)
	}
}

// Collect fetches the tasks to bump, overdue first, deduplicated by ID.
func (b *Bumper) Collect(ctx context.Context, now time.Time) ([]model.Task, error) {
	filters := []string{b.cfg.OverdueFilter}
	if now.Hour() >= b.cfg.BusinessHourEnd {
		b.log.WithField("hour", now.Hour()).Debug("after business hours, including today's tasks")
		filters = append(filters, b.cfg.TodayFilter)
	}

	var tasks []model.Task
	seen := make(map[string]bool)
	for _, filter := range filters {
		found, err := b.tasks.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, task := range found {
			if seen[task.ID] {
				continue
			}
			seen[task.ID] = true
			tasks = append(tasks, task)
		}
	}
	return tasks, nil
}

// Run bumps the tasks and prints what it did. With dryRun set it prints the
// plan and writes nothing.
func (b *Bumper) Run(ctx context.Context, dryRun bool) error {
	loc, err := b.cfg.Location()
	if err != nil {
		return err
	}
	now := b.Now().In(loc)

	tasks, err := b.Collect(ctx, now)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintf(b.out, "No %s tasks to bump.\n", b.cfg.MetaProject)
		return nil
	}

	target := NextBusinessDay(now).Format(model.DateLayout)

	prefix := ""
	if dryRun {
		prefix = "[DRY RUN] "
	}
	fmt.Fprintf(b.out, "%sBumping %d task(s) to %s:\n\n", prefix, len(tasks), target)

	for _, task := range tasks {
		fmt.Fprintf(b.out, "  - %s\n", util.Clip(task.Content, contentWidth))
		fmt.Fprintf(b.out, "    %s → %s\n", task.DueString(), target)

		if !dryRun {
			if err := b.tasks.SetDueDate(ctx, task.ID, target); err != nil {
				return err
			}
		}
	}

	verb := "Bumped"
	if dryRun {
		verb = "Would bump"
	}
	fmt.Fprintf(b.out, "\n%s %d task(s) to %s\n", verb, len(tasks), target)
	return nil
}
