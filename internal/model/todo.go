package model

import (
	"time"

	"github.com/google/uuid"
)

// Todo is the example entity shipped with the template. It demonstrates
// the full vertical slice (model, repository, service, handler, routes,
// migration) that new resources should copy.
type Todo struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Completed   bool       `db:"completed" json:"completed"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	RemindTo    *string    `db:"remind_to" json:"remind_to,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
