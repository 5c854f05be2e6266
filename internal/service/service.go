// Package service implements the business logic layer.
//
// Services sit between HTTP handlers and repositories: handlers decode
// and validate requests, services apply domain rules and coordinate
// side effects (background jobs, external providers), repositories talk
// to the database. Keep handler code thin and repositories dumb; rules
// live here.
package service
