package service

import (
	"context"
	"strings"
	"time"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/util"

	"github.com/rs/zerolog"
)

// AuthService covers account registration, login and instructor management.
type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (*model.User, error)
	// Login verifies credentials and returns a signed access token with the
	// authenticated user.
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	GetCurrentUser(ctx context.Context, userID string) (*model.User, error)
	ListInstructors(ctx context.Context) ([]model.User, error)
	CreateInstructor(ctx context.Context, name, email, password string) (*model.User, error)
	UpdateInstructor(ctx context.Context, instructorID, name, email string) (*model.User, error)
}

type authService struct {
	repo       repository.UserRepository
	jwtSecret  string
	jwtExpiry  time.Duration
	authLogger zerolog.Logger
}

func NewAuthService(repo repository.UserRepository, jwtSecret string, jwtExpiry time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		repo:       repo,
		jwtSecret:  jwtSecret,
		jwtExpiry:  jwtExpiry,
		authLogger: logger.With().Str("service", "AuthService").Logger(),
	}
}

// Register creates an account. An empty role defaults to instructor.
func (s *authService) Register(ctx context.Context, name, email, password, role string) (*model.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperr.New(apperr.Invalid, "All fields are required")
	}
	if len(password) < 8 {
		return nil, apperr.New(apperr.Invalid, "Password must be at least 8 characters")
	}
	if role == "" {
		role = model.RoleInstructor
	}
	if role != model.RoleAdmin && role != model.RoleInstructor {
		return nil, apperr.New(apperr.Invalid, "Role must be admin or instructor")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		s.authLogger.Error().Err(err).Msg("Failed to look up user by email")
		return nil, apperr.Wrap(apperr.Internal, "failed to look up user", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.Conflict, "User with this email already exists")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}
	u := &model.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "User with this email already exists")
		}
		s.authLogger.Error().Err(err).Msg("Failed to create user")
		return nil, apperr.Wrap(apperr.Internal, "failed to create user", err)
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, apperr.New(apperr.Invalid, "Email and password are required")
	}
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		s.authLogger.Error().Err(err).Msg("Failed to look up user by email")
		return "", nil, apperr.Wrap(apperr.Internal, "failed to look up user", err)
	}
	if user == nil {
		return "", nil, apperr.New(apperr.NotFound, "User not found")
	}
	if !util.CheckPassword(user.PasswordHash, password) {
		return "", nil, apperr.New(apperr.Unauthorized, "Invalid user credentials")
	}
	token, err := util.SignToken(user, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		s.authLogger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to sign access token")
		return "", nil, apperr.Wrap(apperr.Internal, "failed to sign access token", err)
	}
	return token, user, nil
}

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		s.authLogger.Error().Err(err).Str("user_id", userID).Msg("Failed to look up user")
		return nil, apperr.Wrap(apperr.Internal, "failed to look up user", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	return user, nil
}

func (s *authService) ListInstructors(ctx context.Context) ([]model.User, error) {
	instructors, err := s.repo.ListUsersByRole(ctx, model.RoleInstructor)
	if err != nil {
		s.authLogger.Error().Err(err).Msg("Failed to list instructors")
		return nil, apperr.Wrap(apperr.Internal, "failed to list instructors", err)
	}
	return instructors, nil
}

func (s *authService) CreateInstructor(ctx context.Context, name, email, password string) (*model.User, error) {
	return s.Register(ctx, name, email, password, model.RoleInstructor)
}

// UpdateInstructor changes an instructor's name and/or email. At least one
// field must be provided.
func (s *authService) UpdateInstructor(ctx context.Context, instructorID, name, email string) (*model.User, error) {
	if name == "" && email == "" {
		return nil, apperr.New(apperr.Invalid, "At least one field is required for update")
	}

	instructor, err := s.repo.GetUserByIDAndRole(ctx, instructorID, model.RoleInstructor)
	if err != nil {
		s.authLogger.Error().Err(err).Str("instructor_id", instructorID).Msg("Failed to look up instructor")
		return nil, apperr.Wrap(apperr.Internal, "failed to look up instructor", err)
	}
	if instructor == nil {
		return nil, apperr.New(apperr.NotFound, "Instructor not found")
	}

	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != instructor.Email {
			existing, err := s.repo.GetUserByEmail(ctx, email)
			if err != nil {
				s.authLogger.Error().Err(err).Msg("Failed to look up user by email")
				return nil, apperr.Wrap(apperr.Internal, "failed to look up user", err)
			}
			if existing != nil {
				return nil, apperr.New(apperr.Conflict, "Email already in use")
			}
			instructor.Email = email
		}
	}
	if name != "" {
		instructor.Name = name
	}

	if err := s.repo.UpdateUser(ctx, instructor); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "Email already in use")
		}
		s.authLogger.Error().Err(err).Str("instructor_id", instructorID).Msg("Failed to update instructor")
		return nil, apperr.Wrap(apperr.Internal, "failed to update instructor", err)
	}
	return instructor, nil
}
