package sqlerr

import "strings"

// Code classifies a database error into a driver-independent category.
// Repositories and the global error handler switch on these instead of
// driver-specific codes.
type Code int

const (
	// Other covers everything we do not map explicitly.
	Other Code = iota

	// UniqueViolation: a unique or primary key constraint was violated.
	UniqueViolation

	// ForeignKeyViolation: a referenced row does not exist (or is still
	// referenced).
	ForeignKeyViolation

	// NotNullViolation: a required column received NULL.
	NotNullViolation

	// CheckViolation: a CHECK constraint rejected the value.
	CheckViolation
)

// Severity mirrors the postgres severity levels. MySQL and SQLite
// errors are always mapped to SeverityError.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityError
	SeverityFatal
	SeverityPanic
)

// Error is the normalized database error. It keeps the original driver
// error (for Unwrap) next to the metadata the message formatter needs.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string // original driver code (SQLSTATE, errno, result code)
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the original driver error to errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.driverErr
}

// Postgres SQLSTATE codes for integrity constraint violations (class 23).
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// MapCode maps a postgres SQLSTATE onto the driver-independent Code.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case pgForeignKeyViolation:
		return ForeignKeyViolation
	case pgUniqueViolation:
		return UniqueViolation
	case pgNotNullViolation:
		return NotNullViolation
	case pgCheckViolation:
		return CheckViolation
	default:
		return Other
	}
}

// MapSeverity maps a postgres severity string onto the Severity enum.
func MapSeverity(severity string) Severity {
	switch strings.ToUpper(severity) {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	default:
		return SeverityUnknown
	}
}
