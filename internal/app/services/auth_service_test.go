package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescare/rescare/internal/app/models"
	"github.com/rescare/rescare/internal/app/models/dto"
	"github.com/rescare/rescare/internal/pkg/apperrors"
	"github.com/rescare/rescare/internal/pkg/auth"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret-key",
		TokenExp:    time.Hour,
		TokenIssuer: "rescare-test",
	})
}

func newAuthService(students *fakeStudentStore, admins *fakeAdminStore) *AuthService {
	return NewAuthService(students, admins, newTestJWTService(), zerolog.Nop())
}

func validRegistration() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FullName:      "Thabo Mokoena",
		ContactNumber: "0821234567",
		Email:         "thabo@example.com",
		Residence:     "Madiba House",
		Block:         "B",
		Password:      "secret123",
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
	}{
		{"missing full name", func(r *dto.RegisterRequest) { r.FullName = "  " }},
		{"missing contact number", func(r *dto.RegisterRequest) { r.ContactNumber = "" }},
		{"missing email", func(r *dto.RegisterRequest) { r.Email = "" }},
		{"missing residence", func(r *dto.RegisterRequest) { r.Residence = "" }},
		{"missing block", func(r *dto.RegisterRequest) { r.Block = "" }},
		{"missing password", func(r *dto.RegisterRequest) { r.Password = "" }},
		{"malformed email", func(r *dto.RegisterRequest) { r.Email = "not-an-email" }},
		{"email without domain", func(r *dto.RegisterRequest) { r.Email = "thabo@" }},
		{"short password", func(r *dto.RegisterRequest) { r.Password = "12345" }},
		{"contact number too short", func(r *dto.RegisterRequest) { r.ContactNumber = "082123" }},
		{"contact number with letters", func(r *dto.RegisterRequest) { r.ContactNumber = "08212345ab" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students := newFakeStudentStore()
			service := newAuthService(students, newFakeAdminStore())

			req := validRegistration()
			tt.mutate(req)

			err := service.Register(context.Background(), req)
			require.Error(t, err)
			assert.Empty(t, students.students, "no account should be created on validation failure")
		})
	}
}

func TestRegisterSuccess(t *testing.T) {
	students := newFakeStudentStore()
	service := newAuthService(students, newFakeAdminStore())

	req := validRegistration()
	req.Email = "  Thabo@Example.COM "

	err := service.Register(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, students.students, 1)
	created := students.students[1]
	assert.Equal(t, "thabo@example.com", created.Email, "email should be trimmed and lowercased")
	assert.Equal(t, "Thabo Mokoena", created.FullName)
	assert.NotEqual(t, req.Password, created.PasswordHash, "password must be stored hashed")
	assert.True(t, auth.CheckPassword(created.PasswordHash, "secret123"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	students := newFakeStudentStore()
	students.add(&models.Student{Email: "thabo@example.com"})
	service := newAuthService(students, newFakeAdminStore())

	err := service.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestLoginStudentSuccess(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	students := newFakeStudentStore()
	students.add(&models.Student{
		FullName:     "Thabo Mokoena",
		Email:        "thabo@example.com",
		Residence:    "Madiba House",
		Block:        "B",
		PasswordHash: hash,
	})
	service := newAuthService(students, newFakeAdminStore())

	resp, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "Thabo@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, string(models.RoleStudent), resp.Role)
	assert.NotEmpty(t, resp.Token)

	profile, ok := resp.User.(dto.StudentProfile)
	require.True(t, ok)
	assert.Equal(t, "Madiba House", profile.Residence)
	assert.Equal(t, "B", profile.Block)
}

func TestLoginAdminWinsOverStudent(t *testing.T) {
	adminHash, err := auth.HashPassword("adminpass")
	require.NoError(t, err)
	studentHash, err := auth.HashPassword("studentpass")
	require.NoError(t, err)

	students := newFakeStudentStore()
	students.add(&models.Student{Email: "shared@example.com", PasswordHash: studentHash})

	admins := newFakeAdminStore()
	admins.admins["shared@example.com"] = &models.Admin{ID: 7, Email: "shared@example.com", PasswordHash: adminHash}

	service := newAuthService(students, admins)

	resp, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "shared@example.com",
		Password: "adminpass",
	})
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleAdmin), resp.Role)

	// The student credentials are shadowed once the admin account matches
	_, err = service.Login(context.Background(), &dto.LoginRequest{
		Email:    "shared@example.com",
		Password: "studentpass",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	students := newFakeStudentStore()
	students.add(&models.Student{Email: "thabo@example.com", PasswordHash: hash})
	service := newAuthService(students, newFakeAdminStore())

	_, err = service.Login(context.Background(), &dto.LoginRequest{
		Email:    "thabo@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	service := newAuthService(newFakeStudentStore(), newFakeAdminStore())

	_, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginAdminLookupFailurePropagates(t *testing.T) {
	admins := newFakeAdminStore()
	admins.err = errors.New("connection refused")
	service := newAuthService(newFakeStudentStore(), admins)

	_, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "thabo@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials,
		"a store failure must not be reported as bad credentials")
}

func TestLoginTokenCarriesIdentity(t *testing.T) {
	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	students := newFakeStudentStore()
	student := students.add(&models.Student{Email: "thabo@example.com", PasswordHash: hash})
	service := newAuthService(students, newFakeAdminStore())

	resp, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "thabo@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	claims, err := newTestJWTService().ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, student.ID, claims.AccountID)
	assert.Equal(t, "thabo@example.com", claims.Email)
	assert.Equal(t, string(models.RoleStudent), claims.Role)
}
