package service

import (
	"github.com/migherize/go-api-boilerplate/internal/repository"
	"github.com/migherize/go-api-boilerplate/internal/server"
)

// Services groups all business logic services.
type Services struct {
	Auth *AuthService
	Todo *TodoService
}

// NewServices constructs the service layer on top of the repositories.
func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Auth: NewAuthService(s),
		Todo: NewTodoService(s, repos.Todos),
	}
}
