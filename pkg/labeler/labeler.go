package labeler

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/harrisonrobin/todoist-organizer/pkg/config"
	"github.com/harrisonrobin/todoist-organizer/pkg/model"
	"github.com/harrisonrobin/todoist-organizer/pkg/util"
	"github.com/sirupsen/logrus"
)

const (
	taskWidth    = 50
	projectWidth = 20
	labelWidth   = 10
)

type TaskService interface {
	List(ctx context.Context, filter string) ([]model.Task, error)
	SetLabels(ctx context.Context, taskID string, labels []string) error
}

type Classifier interface {
	Classify(ctx context.Context, tasks []model.Task) (map[string]string, error)
}

// Labeler gives every unlabeled task one label chosen by the classifier.
type Labeler struct {
	cfg        *config.Config
	tasks      TaskService
	classifier Classifier
	out        io.Writer
	log        logrus.FieldLogger
}

func NewLabeler(cfg *config.Config, tasks TaskService, classifier Classifier, out io.Writer, log logrus.FieldLogger) *Labeler {
	return &Labeler{cfg: cfg, tasks: tasks, classifier: classifier, out: out, log: log}
}

// Run classifies and labels the tasks matched by the no-label filter,
// printing a table of assignments. With dryRun set nothing is written.
func (l *Labeler) Run(ctx context.Context, dryRun bool) error {
	tasks, err := l.tasks.List(ctx, l.cfg.NoLabelFilter)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(l.out, "No unlabeled tasks found.")
		return nil
	}

	// The filter is not trusted to have excluded labelled tasks.
	var unlabeled []model.Task
	for _, task := range tasks {
		if !task.HasLabels() {
			unlabeled = append(unlabeled, task)
		}
	}
	if len(unlabeled) == 0 {
		fmt.Fprintln(l.out, "No unlabeled tasks found (all tasks have labels).")
		return nil
	}

	prefix := ""
	if dryRun {
		prefix = "[DRY RUN] "
	}
	fmt.Fprintf(l.out, "%sClassifying %d task(s)...\n\n", prefix, len(unlabeled))

	assigned, err := l.classifier.Classify(ctx, unlabeled)
	if err != nil {
		return err
	}

	fmt.Fprintf(l.out, "  %-*s %-*s %-*s\n", taskWidth, "Task", projectWidth, "Project", labelWidth, "Label")
	fmt.Fprintf(l.out, "  %s\n", strings.Repeat("-", taskWidth+projectWidth+labelWidth+2))

	applied := 0
	for _, task := range unlabeled {
		label, ok := assigned[task.ID]
		if !ok || label == "" {
			fmt.Fprintf(l.out, "  WARNING: No label assigned for task %s\n", task.ID)
			continue
		}

		fmt.Fprintf(l.out, "  %-*s %-*s %-*s\n",
			taskWidth, util.Ellipsize(task.Content, taskWidth),
			projectWidth, util.Ellipsize(task.ProjectID, projectWidth),
			labelWidth, label)

		if !dryRun {
			if err := l.tasks.SetLabels(ctx, task.ID, []string{label}); err != nil {
				return err
			}
		}
		applied++
	}

	if applied < len(unlabeled) {
		l.log.WithFields(logrus.Fields{"classified": applied, "fetched": len(unlabeled)}).Warn("some tasks were left unlabeled")
	}

	verb := "Labeled"
	if dryRun {
		verb = "Would label"
	}
	fmt.Fprintf(l.out, "\n%s %d task(s)\n", verb, applied)
	return nil
}
