// Package services contains the business logic of the application
package services

import (
	"context"

	"github.com/rescare/rescare/internal/app/models"
	"github.com/rescare/rescare/internal/pkg/websocket"
)

// StudentStore is the student persistence surface consumed by services
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByEmail(ctx context.Context, email string) (*models.Student, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	DeleteWithSnapshot(ctx context.Context, id int64) error
}

// AdminStore is the admin persistence surface consumed by services
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// RequestStore is the request persistence surface consumed by services
type RequestStore interface {
	Create(ctx context.Context, student *models.Student, subject, description string) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.MaintenanceRequest, error)
	ListAll(ctx context.Context) ([]*models.MaintenanceRequest, error)
	ListByBlock(ctx context.Context, residence, block string) ([]*models.MaintenanceRequest, error)
	UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error
}

// Publisher fans events out to topic subscribers, fire-and-forget
type Publisher interface {
	Publish(topic websocket.Topic, event websocket.Event)
}

// Identity is a verified caller identity extracted from a bearer token
type Identity struct {
	AccountID int64
	Email     string
	Role      models.Role
}
