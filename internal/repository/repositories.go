package repository

import (
	"github.com/migherize/go-api-boilerplate/internal/server"
)

// Repositories groups every repository behind one container so the
// service layer takes a single dependency.
type Repositories struct {
	Todos *TodoRepository
}

// NewRepositories constructs all repositories from the app container.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Todos: NewTodoRepository(s),
	}
}
