package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/migherize/go-api-boilerplate/internal/errs"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	sqlite "modernc.org/sqlite"
)

// ErrCode reports the mapped sqlerr.Code for a given error.
//
// If err can be unwrapped into *sqlerr.Error, its Code is returned;
// otherwise Other. Useful after errors were already normalized and a
// caller just wants the category.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError converts a pgconn.PgError (raw postgres error) into
// our normalized Error. Postgres is the friendliest driver here: it
// reports schema/table/column/constraint directly.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// MySQL error numbers for integrity constraint violations.
const (
	myDuplicateEntry   = 1062
	myNoReferencedRow  = 1452
	myRowIsReferenced  = 1451
	myColumnCannotNull = 1048
	myCheckViolated    = 3819
)

// mysqlKeyRe matches the quoted key name in "Duplicate entry 'x' for
// key 'table.constraint'".
var mysqlKeyRe = regexp.MustCompile(`for key '([^']+)'`)

// mysqlColumnRe matches "Column 'name' cannot be null".
var mysqlColumnRe = regexp.MustCompile(`Column '([^']+)'`)

// ConvertMySQLError converts a go-sql-driver error into our normalized
// Error. MySQL only reports metadata inside the message text, so table
// and column names are parsed out of it where the format is stable.
func ConvertMySQLError(src *gomysql.MySQLError) *Error {
	converted := &Error{
		Code:         Other,
		Severity:     SeverityError,
		DatabaseCode: strconv.Itoa(int(src.Number)),
		Message:      src.Message,
		driverErr:    src,
	}

	switch src.Number {
	case myDuplicateEntry:
		converted.Code = UniqueViolation
		// Key names look like 'todos.uq_todos_title' on 8.0+.
		if m := mysqlKeyRe.FindStringSubmatch(src.Message); len(m) > 1 {
			key := m[1]
			if table, constraint, found := strings.Cut(key, "."); found {
				converted.TableName = table
				converted.ConstraintName = constraint
			} else {
				converted.ConstraintName = key
			}
		}
	case myNoReferencedRow, myRowIsReferenced:
		converted.Code = ForeignKeyViolation
	case myColumnCannotNull:
		converted.Code = NotNullViolation
		if m := mysqlColumnRe.FindStringSubmatch(src.Message); len(m) > 1 {
			converted.ColumnName = m[1]
		}
	case myCheckViolated:
		converted.Code = CheckViolation
	}

	return converted
}

// SQLite extended result codes for constraint violations
// (SQLITE_CONSTRAINT | kind<<8). Declared locally so we do not pull in
// the generated modernc.org/sqlite/lib package just for five numbers.
const (
	sqliteConstraintCheck      = 275
	sqliteConstraintForeignKey = 787
	sqliteConstraintNotNull    = 1299
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// sqliteTargetRe matches the "table.column" part of messages like
// "UNIQUE constraint failed: todos.title".
var sqliteTargetRe = regexp.MustCompile(`constraint failed: ([\w]+)\.([\w]+)`)

// ConvertSQLiteError converts a modernc.org/sqlite error into our
// normalized Error. Like MySQL, SQLite reports the violated target only
// inside the message text.
func ConvertSQLiteError(src *sqlite.Error) *Error {
	converted := &Error{
		Code:         Other,
		Severity:     SeverityError,
		DatabaseCode: strconv.Itoa(src.Code()),
		Message:      src.Error(),
		driverErr:    src,
	}

	switch src.Code() {
	case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
		converted.Code = UniqueViolation
	case sqliteConstraintForeignKey:
		converted.Code = ForeignKeyViolation
	case sqliteConstraintNotNull:
		converted.Code = NotNullViolation
	case sqliteConstraintCheck:
		converted.Code = CheckViolation
	}

	if m := sqliteTargetRe.FindStringSubmatch(converted.Message); len(m) > 2 {
		converted.TableName = m[1]
		converted.ColumnName = m[2]
	}

	return converted
}

// generateErrorCode creates consistent application error codes from DB
// errors.
//
// Output format:
//
//	<DOMAIN>_<ACTION>
//
// Example:
//
//	todos + UniqueViolation => TODO_ALREADY_EXISTS
//
// DOMAIN comes from the table name (uppercased, crudely singularized);
// ACTION depends on the violation type. These codes are meant for
// machines (frontend logic, analytics), not humans.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)

	// Naive singularization: "TODOS" -> "TODO". Won't handle
	// "companies", good enough for most schemas.
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces an end-user-facing error message
// from table/column info. Intended for clients/UI, not for logs.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced later if a column name can be
		// inferred from the constraint.
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName tries to infer an entity name from table/column data.
//
// Priority rules:
//  1. If column ends with "_id", use that base name (best for FKs):
//     "user_id" -> "User"
//  2. Otherwise use table name, singularized if it ends with "s".
//  3. Otherwise fall back to "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts snake_case identifiers into Title Case:
//
//	"due_date" -> "Due Date"
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation tries to infer the column name from a
// unique constraint name.
//
// Supported conventions:
//
//  1. "unique_<table>_<column>": unique_todos_title -> "title"
//  2. "<table>_<column>_(key|ukey)": todos_title_key -> "title"
//  3. "uq_<table>_<column>": uq_todos_title -> "title"
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") || strings.HasPrefix(constraintName, "uq_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	re := regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)
	matches := re.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// normalize maps a raw driver error onto *Error, or nil when err does
// not come from one of the supported drivers.
func normalize(err error) *Error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ConvertPgError(pgErr)
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return ConvertMySQLError(myErr)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return ConvertSQLiteError(liteErr)
	}

	return nil
}

// HandleError converts a low-level database error into an
// application-level error.
//
// Output:
//   - If already *errs.HTTPError: returned unchanged
//   - If a constraint violation from any supported driver: mapped into
//     a specific errs.NewBadRequestError
//   - If ErrNoRows: mapped to errs.NewNotFoundError
//   - Otherwise: errs.NewInternalServerError
//
// Intended to be called in repositories (or by the global error
// handler) after a DB call fails.
func HandleError(err error) error {
	// Don't re-wrap errors that are already shaped for the client.
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if sqlErr := normalize(err); sqlErr != nil {
		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			// Usually means the referenced row does not exist, e.g.
			// creating a todo for a user id nobody owns.
			return errs.NewBadRequestError(userMessage, false, &errorCode, nil, nil)

		case UniqueViolation:
			columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName)
			if columnName == "" {
				columnName = sqlErr.ColumnName
			}
			if columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		case NotNullViolation:
			// Map onto a field-level error so forms can highlight the
			// offending input.
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors, nil)

		case CheckViolation:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		default:
			// Unknown DB errors should not leak details to clients.
			return errs.NewInternalServerError()
		}
	}

	// "No rows found" from SELECT queries. Both pgx and database/sql
	// define ErrNoRows; repositories annotate it with "table:<name>:"
	// so the entity name can be recovered here.
	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		errMsg := err.Error()
		tablePrefix := "table:"
		if strings.Contains(errMsg, tablePrefix) {
			table := strings.Split(strings.Split(errMsg, tablePrefix)[1], ":")[0]
			entityName := getEntityName(table, "")
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", entityName), true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
