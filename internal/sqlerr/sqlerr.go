// Package sqlerr specifically handles database driver errors.
//
// It parses cryptic error codes from the database drivers (postgres
// SQLSTATE classes, MySQL error numbers, SQLite extended result codes)
// and converts them into user-friendly messages (e.g., converting a
// "foreign key violation" into a "Bad Request" error).
package sqlerr
