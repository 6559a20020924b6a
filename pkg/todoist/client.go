package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/harrisonrobin/todoist-organizer/pkg/auth"
	"github.com/harrisonrobin/todoist-organizer/pkg/model"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
)

// pageSize is the largest page the filter endpoint serves.
const pageSize = 200

// Client is a thin wrapper around the Todoist REST API. It performs no
// retries; transport and API errors are returned as they arrive.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        logrus.FieldLogger
}

// NewClient creates a Todoist client authenticated with a personal API token.
func NewClient(ctx context.Context, token, baseURL string, log logrus.FieldLogger) *Client {
	return NewHTTPClient(auth.GetClient(ctx, token), baseURL, log)
}

// NewHTTPClient creates a Todoist client on top of an already authenticated
// *http.Client.
func NewHTTPClient(httpClient *http.Client, baseURL string, log logrus.FieldLogger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

type filterPage struct {
	Results    []model.Task `json:"results"`
	NextCursor *string      `json:"next_cursor"`
}

// List returns every task matching the filter query, following pagination
// cursors until the last page. Order is the order the API returns.
func (c *Client) List(ctx context.Context, filter string) ([]model.Task, error) {
	var tasks []model.Task
	cursor := ""
	for {
		q := url.Values{}
		q.Set("query", filter)
		q.Set("limit", fmt.Sprint(pageSize))
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var page filterPage
		if err := c.do(ctx, http.MethodGet, "/tasks/filter?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		tasks = append(tasks, page.Results...)
		c.log.WithFields(logrus.Fields{"filter": filter, "page": len(page.Results)}).Debug("fetched tasks")

		if page.NextCursor == nil || *page.NextCursor == "" {
			return tasks, nil
		}
		cursor = *page.NextCursor
	}
}

// SetDueDate moves a task to the given calendar date (YYYY-MM-DD). Todoist
// applies its own timezone handling; none is done here.
func (c *Client) SetDueDate(ctx context.Context, taskID, date string) error {
	due, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return fmt.Errorf("invalid due date %q: %w", date, err)
	}
	body := map[string]string{"due_date": due.Format(model.DateLayout)}
	c.log.WithFields(logrus.Fields{"task": taskID, "due_date": body["due_date"]}).Debug("updating due date")
	return c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(taskID), body, nil)
}

// SetLabels replaces the task's labels in a single update.
func (c *Client) SetLabels(ctx context.Context, taskID string, labels []string) error {
	if labels == nil {
		labels = []string{}
	}
	body := map[string][]string{"labels": labels}
	c.log.WithFields(logrus.Fields{"task": taskID, "labels": labels}).Debug("updating labels")
	return c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(taskID), body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode todoist response: %w", err)
	}
	return nil
}
