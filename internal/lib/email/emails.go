package email

import "time"

// SendTodoReminderEmail sends a reminder for a todo that reached its
// due date. Data keys must match the todo_reminder template variables.
func (c *Client) SendTodoReminderEmail(to, title string, dueDate time.Time) error {
	data := map[string]string{
		"TodoTitle": title,
		"DueDate":   dueDate.Format("Monday, 2 January 2006 15:04"),
	}

	return c.SendEmail(
		to,
		"Reminder: "+title,
		TemplateTodoReminder,
		data,
	)
}
