package dto

import (
	"time"

	"github.com/rescare/rescare/internal/app/models"
)

// CreateRequestRequest carries a new maintenance request submission
type CreateRequestRequest struct {
	StudentID   int64  `json:"studentId" binding:"required"`
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// UpdateStatusRequest carries a status transition for a request
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RequestResponse is the persisted record shape delivered over both the
// REST surface and the realtime channel. DateCreated marshals as an
// ISO-8601 string.
type RequestResponse struct {
	ID          int64     `json:"id"`
	StudentID   *int64    `json:"studentId"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	DateCreated time.Time `json:"dateCreated"`
	FullName    string    `json:"fullName"`
	Residence   string    `json:"residence"`
	Block       string    `json:"block"`
}

// NewRequestResponse maps a request entity to its wire representation
func NewRequestResponse(r *models.MaintenanceRequest) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		StudentID:   r.StudentID,
		Subject:     r.Subject,
		Description: r.Description,
		Status:      string(r.Status),
		DateCreated: r.DateCreated.UTC(),
		FullName:    r.FullName,
		Residence:   r.Residence,
		Block:       r.Block,
	}
}

// RequestListResponse wraps a list of requests for the REST surface
type RequestListResponse struct {
	Success  bool              `json:"success"`
	Requests []RequestResponse `json:"requests"`
}

// NewRequestListResponse maps request entities to a list envelope
func NewRequestListResponse(requests []*models.MaintenanceRequest) RequestListResponse {
	out := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, NewRequestResponse(r))
	}
	return RequestListResponse{Success: true, Requests: out}
}
