package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/harrisonrobin/todoist-organizer/pkg/model"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBatchSize = 30
	excerptLen       = 200
)

// descriptions explain the stock labels to the model. Labels configured
// without a description are listed by name only.
var descriptions = map[string]string{
	"home":     "Something that must be done physically at home (chores, home repair, cooking, etc.)",
	"pc":       "Requires a desktop computer (coding, spreadsheets, detailed research, etc.)",
	"anywhere": "Can be done from a phone or anywhere (quick calls, messages, simple lookups, etc.)",
}

// ChatCompleter is the part of *openai.Client the classifier needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Options struct {
	Model     string
	MaxTokens int
	BatchSize int
	Labels    []string
}

// Classifier asks a chat model to put each task under exactly one label.
type Classifier struct {
	chat ChatCompleter
	opts Options
	log  logrus.FieldLogger
}

// NewClient builds an OpenAI-protocol chat client for apiKey at baseURL.
// Anthropic serves this protocol under https://api.anthropic.com/v1/.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return openai.NewClientWithConfig(cfg)
}

func NewClassifier(chat ChatCompleter, opts Options, log logrus.FieldLogger) *Classifier {
	if opts.BatchSize < 1 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Classifier{chat: chat, opts: opts, log: log}
}

// Classify sends tasks in batches of BatchSize and merges each batch's
// assignments as it arrives. If a batch fails, the assignments gathered from
// earlier batches are returned together with the error.
func (c *Classifier) Classify(ctx context.Context, tasks []model.Task) (map[string]string, error) {
	results := make(map[string]string, len(tasks))
	for batch := range slices.Chunk(tasks, c.opts.BatchSize) {
		got, err := c.classifyBatch(ctx, batch)
		if err != nil {
			return results, err
		}
		for id, label := range got {
			results[id] = label
		}
	}
	return results, nil
}

func (c *Classifier) classifyBatch(ctx context.Context, tasks []model.Task) (map[string]string, error) {
	c.log.WithField("tasks", len(tasks)).Debug("classifying batch")

	resp, err := c.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.opts.Model,
		MaxTokens: c.opts.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(c.opts.Labels, tasks)},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices returned from LLM")
	}

	parsed, err := ParseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	for id, label := range parsed {
		if !slices.Contains(c.opts.Labels, label) {
			c.log.WithFields(logrus.Fields{"task": id, "label": label}).Warn("dropping label outside the configured set")
			delete(parsed, id)
		}
	}
	return parsed, nil
}

// BuildPrompt renders the single-turn classification prompt for one batch.
func BuildPrompt(labels []string, tasks []model.Task) string {
	var b strings.Builder
	b.WriteString("You are classifying Todoist tasks into exactly one label. The labels are:\n")
	for _, label := range labels {
		if d, ok := descriptions[label]; ok {
			fmt.Fprintf(&b, "- %q: %s\n", label, d)
		} else {
			fmt.Fprintf(&b, "- %q\n", label)
		}
	}
	b.WriteString("\nFor each task, return a JSON object mapping task ID to label.\n\nTasks:\n")
	for _, task := range tasks {
		fmt.Fprintf(&b, "- ID: %s | Content: %q | Project: %q\n", task.ID, task.Content, task.ProjectID)
	}
	b.WriteString(`
Return ONLY a JSON object like: {"task_id_1": "label", "task_id_2": "label", ...}`)
	return b.String()
}

// ParseError reports a model reply that was not a JSON object of strings.
type ParseError struct {
	Excerpt string
	Err     error
}

func (e *ParseError) Error() string {
	return "failed to parse LLM response as JSON: " + e.Excerpt
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseResponse decodes the model's reply, tolerating a markdown code fence
// (```json or bare ```) around the object.
func ParseResponse(text string) (map[string]string, error) {
	text = stripFence(strings.TrimSpace(text))

	var out map[string]string
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, &ParseError{Excerpt: excerpt(text), Err: err}
	}
	if out == nil {
		return nil, &ParseError{Excerpt: excerpt(text), Err: errors.New("expected a JSON object")}
	}
	return out, nil
}

func stripFence(text string) string {
	for _, fence := range []string{"```json", "```"} {
		if _, rest, ok := strings.Cut(text, fence); ok {
			body, _, _ := strings.Cut(rest, "```")
			return strings.TrimSpace(body)
		}
	}
	return text
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) > excerptLen {
		return string(r[:excerptLen])
	}
	return s
}
