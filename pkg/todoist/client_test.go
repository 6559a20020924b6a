package todoist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type update struct {
	taskID string
	body   map[string]any
}

// fakeTodoist serves the filter endpoint from pages and records updates.
type fakeTodoist struct {
	mu      sync.Mutex
	pages   [][]string
	queries []string
	auth    []string
	updates []update
}

func (f *fakeTodoist) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/tasks/filter":
		f.queries = append(f.queries, r.URL.Query().Get("query"))
		page := 0
		if c := r.URL.Query().Get("cursor"); c != "" {
			fmt.Sscanf(c, "page-%d", &page)
		}
		var results []map[string]any
		for _, id := range f.pages[page] {
			results = append(results, map[string]any{
				"id": id, "content": "task " + id, "project_id": "p1", "labels": []string{},
				"due": map[string]any{"date": "2025-01-20", "is_recurring": false},
			})
		}
		var next any
		if page+1 < len(f.pages) {
			next = fmt.Sprintf("page-%d", page+1)
		}
		json.NewEncoder(w).Encode(map[string]any{"results": results, "next_cursor": next})

	case r.Method == http.MethodPost && len(r.URL.Path) > len("/tasks/"):
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.updates = append(f.updates, update{taskID: r.URL.Path[len("/tasks/"):], body: body})
		json.NewEncoder(w).Encode(map[string]any{"id": r.URL.Path[len("/tasks/"):]})

	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	log, _ := test.NewNullLogger()
	return NewClient(context.Background(), "tok", srv.URL+"/", log)
}

func TestListFollowsCursors(t *testing.T) {
	fake := &fakeTodoist{pages: [][]string{{"a", "b"}, {"c"}, {"d", "e"}}}
	client := newTestClient(t, fake)

	tasks, err := client.List(context.Background(), "##Meta & overdue")
	require.NoError(t, err)

	var ids []string
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
	assert.Equal(t, []string{"##Meta & overdue", "##Meta & overdue", "##Meta & overdue"}, fake.queries)
	assert.Equal(t, "2025-01-20", tasks[0].DueString())
	for _, h := range fake.auth {
		assert.Equal(t, "Bearer tok", h)
	}
}

func TestListEmpty(t *testing.T) {
	client := newTestClient(t, &fakeTodoist{pages: [][]string{{}}})

	tasks, err := client.List(context.Background(), "no labels")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSetDueDate(t *testing.T) {
	fake := &fakeTodoist{}
	client := newTestClient(t, fake)

	require.NoError(t, client.SetDueDate(context.Background(), "42", "2025-01-24"))
	require.Len(t, fake.updates, 1)
	assert.Equal(t, "42", fake.updates[0].taskID)
	assert.Equal(t, map[string]any{"due_date": "2025-01-24"}, fake.updates[0].body)
}

func TestSetDueDateRejectsBadDate(t *testing.T) {
	fake := &fakeTodoist{}
	client := newTestClient(t, fake)

	err := client.SetDueDate(context.Background(), "42", "24/01/2025")
	assert.ErrorContains(t, err, "invalid due date")
	assert.Empty(t, fake.updates)
}

func TestSetLabelsReplaces(t *testing.T) {
	fake := &fakeTodoist{}
	client := newTestClient(t, fake)

	require.NoError(t, client.SetLabels(context.Background(), "7", []string{"pc"}))
	require.Len(t, fake.updates, 1)
	assert.Equal(t, map[string]any{"labels": []any{"pc"}}, fake.updates[0].body)
}

func TestAPIErrorIsReturnedUnchanged(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Forbidden", http.StatusUnauthorized)
	}))

	_, err := client.List(context.Background(), "today")
	require.Error(t, err)

	var apiErr *googleapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Code)

	err = client.SetLabels(context.Background(), "1", []string{"home"})
	require.ErrorAs(t, err, &apiErr)
}
