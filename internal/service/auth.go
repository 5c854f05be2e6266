package service

import (
	"github.com/clerk/clerk-sdk-go/v2"

	"github.com/migherize/go-api-boilerplate/internal/server"
)

// AuthService configures the Clerk SDK. Clerk keeps its key in package
// state, so construction is enough; the auth middleware does the actual
// token validation per request.
type AuthService struct {
	server *server.Server
}

// NewAuthService constructs an AuthService. When AUTH.SECRET_KEY is not
// configured the SDK stays unkeyed and protected routes reject every
// request, which is the safe default for a fresh clone.
func NewAuthService(s *server.Server) *AuthService {
	if s.Config.Auth != nil && s.Config.Auth.SecretKey != "" {
		clerk.SetKey(s.Config.Auth.SecretKey)
	}

	return &AuthService{
		server: s,
	}
}
