package email

// PreviewData contains sample template data for local preview/testing.
//
// It maps templateName -> (templateVariableName -> exampleValue).
var PreviewData = map[string]map[string]string{
	"todo_reminder": {
		"TodoTitle": "Renew the domain",
		"DueDate":   "Monday, 2 January 2006 15:04",
	},
}
