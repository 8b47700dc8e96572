package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rescare/rescare/internal/app/models"
	"github.com/rescare/rescare/internal/app/models/dto"
	"github.com/rescare/rescare/internal/pkg/apperrors"
	"github.com/rescare/rescare/internal/pkg/websocket"
)

const (
	maxSubjectLength     = 255
	maxDescriptionLength = 1000
)

// RequestService owns the maintenance request lifecycle: creation, listing
// with live-or-snapshot field resolution, status transitions, and the
// broadcast that follows every successful mutation.
type RequestService struct {
	requests  RequestStore
	students  StudentStore
	publisher Publisher
	logger    zerolog.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(requests RequestStore, students StudentStore, publisher Publisher, logger zerolog.Logger) *RequestService {
	return &RequestService{
		requests:  requests,
		students:  students,
		publisher: publisher,
		logger:    logger,
	}
}

// Create persists a new request with status Pending and broadcasts it to the
// admin group and the author's residence/block group. The broadcast happens
// after the write commits and its delivery is not part of the operation's
// success.
func (s *RequestService) Create(ctx context.Context, studentID int64, subject, description string) (*models.MaintenanceRequest, error) {
	subject = strings.TrimSpace(subject)
	description = strings.TrimSpace(description)

	if subject == "" || description == "" {
		return nil, apperrors.NewValidationError("All fields are required.")
	}

	// Limits count characters, matching the VARCHAR column lengths
	if utf8.RuneCountInString(subject) > maxSubjectLength || utf8.RuneCountInString(description) > maxDescriptionLength {
		return nil, apperrors.NewValidationError("Input too long.")
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	id, err := s.requests.Create(ctx, student, subject, description)
	if err != nil {
		return nil, err
	}

	created, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read back created request: %w", err)
	}

	s.broadcast(websocket.EventNewRequest, created)

	return created, nil
}

// ListAll returns every request, newest first, with display fields resolved
func (s *RequestService) ListAll(ctx context.Context) ([]*models.MaintenanceRequest, error) {
	return s.requests.ListAll(ctx)
}

// ListByBlock returns the requests visible to a residence/block view,
// including requests whose authors have since deleted their accounts
func (s *RequestService) ListByBlock(ctx context.Context, residence, block string) ([]*models.MaintenanceRequest, error) {
	return s.requests.ListByBlock(ctx, residence, block)
}

// UpdateStatus sets a request's status to any of the three valid values and
// broadcasts the updated record. Transitions are deliberately unrestricted
// server-side; clients enforce forward-only progression.
func (s *RequestService) UpdateStatus(ctx context.Context, id int64, status string) (*models.MaintenanceRequest, error) {
	newStatus := models.RequestStatus(status)
	if !newStatus.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	if _, err := s.requests.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.requests.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}

	updated, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read back updated request: %w", err)
	}

	s.broadcast(websocket.EventRequestUpdated, updated)

	return updated, nil
}

// broadcast fans a request event out to the admin group and the request's
// resolved residence/block group
func (s *RequestService) broadcast(eventName string, req *models.MaintenanceRequest) {
	event := websocket.Event{Name: eventName, Data: dto.NewRequestResponse(req)}

	s.publisher.Publish(websocket.TopicAdmin, event)
	s.publisher.Publish(websocket.BlockTopic(req.Residence, req.Block), event)

	s.logger.Debug().Str("event", eventName).Int64("requestID", req.ID).
		Str("residence", req.Residence).Str("block", req.Block).
		Msg("Request event broadcasted")
}
