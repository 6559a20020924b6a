package cli

import (
	"context"

	"github.com/harrisonrobin/todoist-organizer/pkg/classify"
	"github.com/harrisonrobin/todoist-organizer/pkg/config"
	"github.com/harrisonrobin/todoist-organizer/pkg/labeler"
	"github.com/harrisonrobin/todoist-organizer/pkg/logger"
	"github.com/harrisonrobin/todoist-organizer/pkg/model"
	"github.com/harrisonrobin/todoist-organizer/pkg/overdue"
	"github.com/harrisonrobin/todoist-organizer/pkg/todoist"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// TaskService covers what both commands need from Todoist.
type TaskService interface {
	List(ctx context.Context, filter string) ([]model.Task, error)
	SetDueDate(ctx context.Context, taskID, date string) error
	SetLabels(ctx context.Context, taskID string, labels []string) error
}

// Deps lets tests swap the network-backed collaborators.
type Deps struct {
	Tasks      func(cfg *config.Config, log logrus.FieldLogger) TaskService
	Classifier func(cfg *config.Config, log logrus.FieldLogger) labeler.Classifier
}

func (d *Deps) tasks(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) TaskService {
	if d != nil && d.Tasks != nil {
		return d.Tasks(cfg, log)
	}
	return todoist.NewClient(ctx, cfg.TodoistAPIToken, cfg.TodoistBaseURL, log)
}

func (d *Deps) classifier(cfg *config.Config, log logrus.FieldLogger) labeler.Classifier {
	if d != nil && d.Classifier != nil {
		return d.Classifier(cfg, log)
	}
	chat := classify.NewClient(cfg.AnthropicAPIKey, cfg.LLMBaseURL)
	return classify.NewClassifier(chat, classify.Options{
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		BatchSize: cfg.BatchSize,
		Labels:    cfg.Labels,
	}, log)
}

// setup loads and validates the configuration before anything touches the
// network.
func setup(cmd *cobra.Command, opts *rootOptions) (*config.Config, *logrus.Logger, error) {
	log := logger.New(cmd.ErrOrStderr(), opts.verbose)

	cfg, err := config.Load(opts.configOptions())
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func bumpCmd(opts *rootOptions, deps *Deps) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "bump",
		Short: "Bump overdue Meta tasks to next business day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			tasks := deps.tasks(ctx, cfg, log)
			return overdue.NewBumper(cfg, tasks, cmd.OutOrStdout(), log).Run(ctx, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be changed without making actual changes")
	return cmd
}

func labelCmd(opts *rootOptions, deps *Deps) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "label",
		Short: "Auto-label unlabeled tasks using Claude",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			tasks := deps.tasks(ctx, cfg, log)
			return labeler.NewLabeler(cfg, tasks, deps.classifier(cfg, log), cmd.OutOrStdout(), log).Run(ctx, dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be changed without making actual changes")
	return cmd
}
