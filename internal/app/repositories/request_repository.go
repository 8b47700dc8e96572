package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rescare/rescare/internal/app/models"
	"github.com/rescare/rescare/internal/pkg/apperrors"
	"github.com/rescare/rescare/internal/pkg/logger"
)

// RequestRepository handles maintenance request database operations
type RequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// resolvedColumns selects request rows with display fields resolved to the
// live account values while the account exists, the snapshot otherwise.
var resolvedColumns = []string{
	"r.id",
	"r.student_id",
	"r.subject",
	"r.description",
	"r.status",
	"r.date_created",
	"COALESCE(s.full_name, r.student_name, '') AS full_name",
	"COALESCE(s.residence, r.student_residence, '') AS residence",
	"COALESCE(s.block, r.student_block, '') AS block",
}

func (r *RequestRepository) resolvedSelect() squirrel.SelectBuilder {
	return r.sb.Select(resolvedColumns...).
		From("maintenance_requests r").
		LeftJoin("students s ON r.student_id = s.id")
}

func scanRequest(row pgx.Row) (*models.MaintenanceRequest, error) {
	var req models.MaintenanceRequest
	err := row.Scan(
		&req.ID, &req.StudentID, &req.Subject, &req.Description,
		&req.Status, &req.DateCreated, &req.FullName, &req.Residence, &req.Block)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a new request with status Pending and the student's current
// identity fields copied in, so the row is self-describing from the start.
// Returns the new request id.
func (r *RequestRepository) Create(ctx context.Context, student *models.Student, subject, description string) (int64, error) {
	sql, args, err := r.sb.Insert("maintenance_requests").
		Columns("student_id", "subject", "description", "student_name", "student_residence", "student_block").
		Values(student.ID, subject, description, student.FullName, student.Residence, student.Block).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create request SQL")
		return 0, fmt.Errorf("failed to build create request query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing create request query")
		return 0, fmt.Errorf("error creating request: %w", err)
	}

	logger.Info().Int64("requestID", id).Int64("studentID", student.ID).Msg("Maintenance request created")
	return id, nil
}

// GetByID retrieves a single request with resolved display fields
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.MaintenanceRequest, error) {
	sql, args, err := r.resolvedSelect().
		Where(squirrel.Eq{"r.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get request query: %w", err)
	}

	req, err := scanRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		logger.Error().Err(err).Int64("requestID", id).Msg("Error scanning request row")
		return nil, fmt.Errorf("error retrieving request: %w", err)
	}

	return req, nil
}

// ListAll returns every request ordered by creation time descending
func (r *RequestRepository) ListAll(ctx context.Context) ([]*models.MaintenanceRequest, error) {
	sql, args, err := r.resolvedSelect().
		OrderBy("r.date_created DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list requests query: %w", err)
	}

	return r.queryRequests(ctx, sql, args)
}

// ListByBlock returns requests belonging to a residence/block pair. A request
// matches through its live account or, once the account is gone, through its
// snapshot fields, so block views survive account deletion.
func (r *RequestRepository) ListByBlock(ctx context.Context, residence, block string) ([]*models.MaintenanceRequest, error) {
	sql, args, err := r.resolvedSelect().
		Where(squirrel.Or{
			squirrel.Eq{"s.residence": residence, "s.block": block},
			squirrel.Eq{"r.student_residence": residence, "r.student_block": block},
		}).
		OrderBy("r.date_created DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list block requests query: %w", err)
	}

	return r.queryRequests(ctx, sql, args)
}

func (r *RequestRepository) queryRequests(ctx context.Context, sql string, args []interface{}) ([]*models.MaintenanceRequest, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying requests")
		return nil, fmt.Errorf("error listing requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.MaintenanceRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning request row: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating request rows: %w", err)
	}

	return requests, nil
}

// UpdateStatus persists a new status for a request
func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	sql, args, err := r.sb.Update("maintenance_requests").
		Set("status", string(status)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update status query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("requestID", id).Msg("Error executing update status query")
		return fmt.Errorf("error updating request status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}

	logger.Info().Int64("requestID", id).Str("status", string(status)).Msg("Request status updated")
	return nil
}

// Count returns the number of maintenance requests
func (r *RequestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM maintenance_requests`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting requests: %w", err)
	}
	return count, nil
}
