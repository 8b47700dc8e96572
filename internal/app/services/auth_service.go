package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rescare/rescare/internal/app/models"
	"github.com/rescare/rescare/internal/app/models/dto"
	"github.com/rescare/rescare/internal/pkg/apperrors"
	"github.com/rescare/rescare/internal/pkg/auth"
)

var (
	emailRegex         = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	contactNumberRegex = regexp.MustCompile(`^\d{10}$`)
)

// AuthService handles registration and credential verification
type AuthService struct {
	students   StudentStore
	admins     AdminStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(students StudentStore, admins AdminStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		students:   students,
		admins:     admins,
		jwtService: jwtService,
		logger:     logger,
	}
}

// validateRegistration checks all registration fields
func (s *AuthService) validateRegistration(req *dto.RegisterRequest) error {
	if strings.TrimSpace(req.FullName) == "" ||
		strings.TrimSpace(req.ContactNumber) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Residence) == "" ||
		strings.TrimSpace(req.Block) == "" ||
		req.Password == "" {
		return apperrors.NewValidationError("All fields are required.")
	}

	if !emailRegex.MatchString(req.Email) {
		return fmt.Errorf("%w: invalid email format", apperrors.ErrInvalidEmail)
	}

	if len(req.Password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrInvalidPassword)
	}

	if !contactNumberRegex.MatchString(req.ContactNumber) {
		return apperrors.NewValidationError("Contact number must be 10 digits.")
	}

	return nil
}

// Register creates a new student account. The caller logs in separately
// afterwards; registration does not issue a token.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	if err := s.validateRegistration(req); err != nil {
		return err
	}

	exists, err := s.students.EmailExists(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return apperrors.ErrEmailAlreadyExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		FullName:      strings.TrimSpace(req.FullName),
		ContactNumber: req.ContactNumber,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Residence:     strings.TrimSpace(req.Residence),
		Block:         strings.TrimSpace(req.Block),
		PasswordHash:  passwordHash,
	}

	if _, err := s.students.Create(ctx, student); err != nil {
		return err
	}

	s.logger.Info().Str("email", student.Email).Msg("New student registered")
	return nil
}

// Login verifies credentials against both account tables and issues a bearer
// token. The admin table is checked first: if an email exists in both tables
// the admin account wins.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrAdminNotFound) {
		return nil, err
	}
	if err == nil {
		if !auth.CheckPassword(admin.PasswordHash, req.Password) {
			return nil, apperrors.ErrInvalidCredentials
		}

		token, err := s.jwtService.GenerateToken(admin.ID, admin.Email, string(models.RoleAdmin))
		if err != nil {
			return nil, fmt.Errorf("failed to issue token: %w", err)
		}

		s.logger.Info().Str("email", admin.Email).Msg("Admin login successful")
		return &dto.LoginResponse{
			Success: true,
			Token:   token,
			User:    dto.AdminProfile{ID: admin.ID, Email: admin.Email},
			Role:    string(models.RoleAdmin),
		}, nil
	}

	student, err := s.students.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(student.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(student.ID, student.Email, string(models.RoleStudent))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Str("email", student.Email).Msg("Student login successful")
	return &dto.LoginResponse{
		Success: true,
		Token:   token,
		User: dto.StudentProfile{
			ID:        student.ID,
			FullName:  student.FullName,
			Email:     student.Email,
			Residence: student.Residence,
			Block:     student.Block,
		},
		Role: string(models.RoleStudent),
	}, nil
}
