package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateTodoReminder corresponds to templates/emails/todo_reminder.html
	TemplateTodoReminder Template = "todo_reminder"
)
