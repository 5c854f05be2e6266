// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures (FieldError for
// forms, HTTPError for API responses) so the client receives
// meaningful, actionable, and consistent error messages.
//
//   - Return consistent error shapes to API clients (JSON).
//   - Support field-level validation errors for forms.
//   - Support "action hints" (like redirect) that frontends can interpret.
//   - Provide errors that play nicely with Go's standard errors package.
package errs
