package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskTodoReminder is the job type name stored in Redis. Asynq uses
	// task type strings to route tasks to handlers.
	TaskTodoReminder = "todo:reminder"
)

// TodoReminderPayload is the JSON payload of the reminder task.
type TodoReminderPayload struct {
	TodoID  string    `json:"todo_id"`
	To      string    `json:"to"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"due_date"`
}

// NewTodoReminderTask constructs an Asynq task that delivers a todo
// reminder email at the todo's due date.
//
// Task options:
//   - ProcessAt(dueDate): hold the task in Redis until the due date
//   - MaxRetry(3): retry up to 3 times on failure
//   - Queue("default"): reminders are not critical
//   - Timeout(30s): kill the handler if the email provider hangs
func NewTodoReminderTask(todoID, to, title string, dueDate time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(TodoReminderPayload{
		TodoID:  todoID,
		To:      to,
		Title:   title,
		DueDate: dueDate,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskTodoReminder,
		payload,
		asynq.ProcessAt(dueDate),
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
