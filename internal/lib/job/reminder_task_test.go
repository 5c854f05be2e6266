package job

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTodoReminderTask(t *testing.T) {
	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	task, err := NewTodoReminderTask("todo-1", "me@example.com", "renew the domain", due)
	require.NoError(t, err)

	assert.Equal(t, TaskTodoReminder, task.Type())

	var payload TodoReminderPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))

	assert.Equal(t, "todo-1", payload.TodoID)
	assert.Equal(t, "me@example.com", payload.To)
	assert.Equal(t, "renew the domain", payload.Title)
	assert.True(t, payload.DueDate.Equal(due))
}
