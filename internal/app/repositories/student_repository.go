package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rescare/rescare/internal/app/models"
	"github.com/rescare/rescare/internal/db"
	"github.com/rescare/rescare/internal/pkg/apperrors"
	"github.com/rescare/rescare/internal/pkg/dberrors"
	"github.com/rescare/rescare/internal/pkg/logger"
)

// StudentRepository handles student account database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new student account and returns its id
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (int64, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("full_name", "contact_number", "email", "residence", "block", "password_hash").
		Values(student.FullName, student.ContactNumber, student.Email, student.Residence, student.Block, student.PasswordHash).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return 0, fmt.Errorf("failed to build create student query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_email_lower_key") {
			logger.Warn().Str("email", student.Email).Msg("Attempted to register duplicate email")
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", student.Email).Msg("Error executing create student query")
		return 0, fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Int64("studentID", id).Str("email", student.Email).Msg("Student created")
	return id, nil
}

// GetByID retrieves a student account by id
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select("id", "full_name", "contact_number", "email", "residence", "block", "password_hash", "created_at").
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var student models.Student
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&student.ID, &student.FullName, &student.ContactNumber, &student.Email,
		&student.Residence, &student.Block, &student.PasswordHash, &student.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// GetByEmail retrieves a student account by case-insensitive email match
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	sql, args, err := r.sb.Select("id", "full_name", "contact_number", "email", "residence", "block", "password_hash", "created_at").
		From("students").
		Where(squirrel.Expr("LOWER(email) = LOWER(?)", email)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student by email query: %w", err)
	}

	var student models.Student
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&student.ID, &student.FullName, &student.ContactNumber, &student.Email,
		&student.Residence, &student.Block, &student.PasswordHash, &student.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("email", email).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// EmailExists checks if a student email is already registered (case-insensitive)
func (r *StudentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM students WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error checking email existence")
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

// Count returns the number of student accounts
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// DeleteWithSnapshot deletes a student account while preserving their
// maintenance requests. Inside a single transaction the student's identity
// fields are copied onto every request row they own, then the account row is
// deleted (the FK nulls out the live reference). Readers never observe a
// request without its identity fields.
func (r *StudentRepository) DeleteWithSnapshot(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var fullName, residence, block string
		err := tx.QueryRow(ctx,
			`SELECT full_name, residence, block FROM students WHERE id = $1 FOR UPDATE`, id).
			Scan(&fullName, &residence, &block)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrStudentNotFound
			}
			return fmt.Errorf("error locking student row: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE maintenance_requests
			 SET student_name = $1, student_residence = $2, student_block = $3
			 WHERE student_id = $4`,
			fullName, residence, block, id)
		if err != nil {
			return fmt.Errorf("error snapshotting student info onto requests: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
			return fmt.Errorf("error deleting student: %w", err)
		}

		logger.Info().Int64("studentID", id).Msg("Student account deleted, requests preserved")
		return nil
	})
}
