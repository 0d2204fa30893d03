// Package services holds the business operations behind the HTTP handlers.
package services

import (
	"github.com/rs/zerolog"

	appauth "github.com/yigit/projecttracker/internal/app/auth"
	"github.com/yigit/projecttracker/internal/app/repositories"
	"github.com/yigit/projecttracker/internal/pkg/auth"
)

// Services groups every service built over one set of repositories
type Services struct {
	Auth          *AuthService
	Projects      *ProjectService
	Users         *UserService
	Admin         *AdminService
	Authorization *appauth.AuthorizationService
}

// NewServices wires the services. Each one logs under its own component name.
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, base zerolog.Logger) *Services {
	authz := appauth.NewAuthorizationService(repos.Users, repos.Projects)
	users := NewUserService(repos.Users, repos.Projects, authz, component(base, "user_service"))

	return &Services{
		Auth:          NewAuthService(repos.Users, jwtService, component(base, "auth_service")),
		Projects:      NewProjectService(repos.Users, repos.Projects, authz, component(base, "project_service")),
		Users:         users,
		Admin:         NewAdminService(repos.Users, repos.Projects, authz, users, component(base, "admin_service")),
		Authorization: authz,
	}
}

func component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
