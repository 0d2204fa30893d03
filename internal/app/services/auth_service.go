package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/projecttracker/internal/app/models"
	"github.com/yigit/projecttracker/internal/app/models/dto"
	"github.com/yigit/projecttracker/internal/app/repositories"
	"github.com/yigit/projecttracker/internal/pkg/apperrors"
	"github.com/yigit/projecttracker/internal/pkg/auth"
	"github.com/yigit/projecttracker/internal/pkg/validation"
)

// AuthService handles registration, login and account creation
type AuthService struct {
	users      repositories.UserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates a student or supervisor account and issues its token.
// Admin accounts are refused before any other check.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Role == models.RoleAdmin {
		return nil, apperrors.ErrAdminRegistration
	}
	if req.Role != models.RoleStudent && req.Role != models.RoleSupervisor {
		return nil, apperrors.NewValidationError("role", "Invalid role specified")
	}

	user := &models.User{
		Name:       strings.TrimSpace(req.Name),
		Email:      validation.NormalizeEmail(req.Email),
		Role:       req.Role,
		Contact:    strings.TrimSpace(req.Contact),
		Department: strings.TrimSpace(req.Department),
		Bio:        strings.TrimSpace(req.Bio),
		Picture:    strings.TrimSpace(req.Picture),
	}
	if user.Picture == "" {
		user.Picture = validation.DefaultPicture
	}

	verr := &apperrors.ValidationError{}
	validateUserFields(user, verr)
	validatePassword(req.Password, verr)

	switch req.Role {
	case models.RoleStudent:
		profile := &models.StudentProfile{}
		if req.Year == nil {
			verr.Add("year", "Year is required for students")
		} else {
			profile.Year = *req.Year
			validateYear(profile.Year, verr)
		}
		if req.StudentID == nil || *req.StudentID <= 0 {
			verr.Add("studentId", "A positive numeric studentId is required for students")
		} else {
			profile.StudentID = *req.StudentID
		}
		user.Student = profile
	case models.RoleSupervisor:
		user.Supervisor = &models.SupervisorProfile{
			StaffID:  strings.TrimSpace(req.StaffID),
			Students: []string{},
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.createUser(ctx, user, req.Password); err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Str("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return dto.NewAuthResponse(token, user), nil
}

// createUser rejects a taken email, hashes the password and stores the user
func (s *AuthService) createUser(ctx context.Context, user *models.User, password string) error {
	exists, err := s.users.EmailExists(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return apperrors.NewValidationError("email", "User already exists")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user.Password = hash

	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	return nil
}

// Login verifies the credentials for the claimed account type
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, validation.NormalizeEmail(req.Email))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if user.Role != req.UserType || !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Str("userID", user.ID).Msg("User logged in")
	return dto.NewAuthResponse(token, user), nil
}

// Me returns the account behind the token subject
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// CreateAdmin creates another admin account
func (s *AuthService) CreateAdmin(ctx context.Context, req *dto.CreateAdminRequest) (*models.User, error) {
	user := &models.User{
		Name:    strings.TrimSpace(req.Name),
		Email:   validation.NormalizeEmail(req.Email),
		Role:    models.RoleAdmin,
		Picture: validation.DefaultPicture,
	}

	verr := &apperrors.ValidationError{}
	validateUserFields(user, verr)
	validatePassword(req.Password, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.createUser(ctx, user, req.Password); err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID).Msg("Admin account created")
	return user, nil
}

// EnsureAdmin creates the configured admin unless the email is already registered
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	exists, err := s.users.EmailExists(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("error checking admin email: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := s.CreateAdmin(ctx, &dto.CreateAdminRequest{Name: name, Email: email, Password: password}); err != nil {
		return false, err
	}
	return true, nil
}
