// Package repository implements the data access layer.
//
// Repositories speak sqlx and write queries with `?` placeholders,
// rebinding them through sqlx.DB.Rebind so the same query text runs on
// SQLite, PostgreSQL and MySQL. Database errors bubble up raw; the
// global error handler normalizes them through the sqlerr package, so
// repositories only add table context to sql.ErrNoRows.
package repository
