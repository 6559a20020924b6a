package model

// Task is a Todoist task as returned by the filter endpoint. Only the fields
// this tool reads or writes back are decoded.
type Task struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	ProjectID string   `json:"project_id"`
	Labels    []string `json:"labels"`
	Due       *Due     `json:"due,omitempty"`
}

// Due is the due block of a task. It is nil when the task has no due date.
type Due struct {
	Date        Date    `json:"date"`
	String      string  `json:"string,omitempty"`
	IsRecurring bool    `json:"is_recurring"`
	Timezone    *string `json:"timezone,omitempty"`
}

// HasLabels reports whether the task carries at least one label.
func (t Task) HasLabels() bool {
	return len(t.Labels) > 0
}

// DueString is the previous due date used in reports, or "No due date".
func (t Task) DueString() string {
	if t.Due == nil || t.Due.Date.IsZero() {
		return "No due date"
	}
	return t.Due.Date.String()
}
