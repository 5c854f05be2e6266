// Package model defines the database entities shared by the repository
// and service layers.
//
// Entities carry `db` struct tags for sqlx scanning and `json` tags for
// API responses. Add new entities here when extending the template with
// additional resources.
package model
