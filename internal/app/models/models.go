// Package models contains the database entities of the application
package models

import "time"

// Role identifies the two account kinds
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// RequestStatus is the lifecycle status of a maintenance request
type RequestStatus string

const (
	StatusPending   RequestStatus = "Pending"
	StatusApproved  RequestStatus = "Approved"
	StatusCompleted RequestStatus = "Completed"
)

// IsValid reports whether the status is one of the three known values
func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCompleted:
		return true
	}
	return false
}

// Student is a registered resident account
type Student struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"fullName"`
	ContactNumber string    `json:"contactNumber"`
	Email         string    `json:"email"`
	Residence     string    `json:"residence"`
	Block         string    `json:"block"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Admin is a staff account, seeded at startup rather than registered
type Admin struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MaintenanceRequest is an issue report submitted by a student.
//
// StudentID is nil once the owning account has been deleted; the
// snapshot columns keep the request attributable afterwards. FullName,
// Residence and Block always carry the resolved display values: the
// live account fields while the account exists, the snapshot otherwise.
type MaintenanceRequest struct {
	ID          int64         `json:"id"`
	StudentID   *int64        `json:"studentId"`
	Subject     string        `json:"subject"`
	Description string        `json:"description"`
	Status      RequestStatus `json:"status"`
	DateCreated time.Time     `json:"dateCreated"`
	FullName    string        `json:"fullName"`
	Residence   string        `json:"residence"`
	Block       string        `json:"block"`
}
