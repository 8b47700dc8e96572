package services

import (
	"context"
	"strings"
	"sync"

	"github.com/rescare/rescare/internal/app/models"
	"github.com/rescare/rescare/internal/pkg/apperrors"
	"github.com/rescare/rescare/internal/pkg/websocket"
)

// fakeStudentStore is an in-memory StudentStore for service tests. When
// requests is set, DeleteWithSnapshot mirrors the real store: the student's
// fields are copied onto their requests before the live reference is nulled.
type fakeStudentStore struct {
	mu       sync.Mutex
	students map[int64]*models.Student
	nextID   int64

	requests  *fakeRequestStore
	createErr error
	deleted   []int64
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{
		students: make(map[int64]*models.Student),
		nextID:   1,
	}
}

func (f *fakeStudentStore) add(student *models.Student) *models.Student {
	f.mu.Lock()
	defer f.mu.Unlock()
	if student.ID == 0 {
		student.ID = f.nextID
		f.nextID++
	}
	f.students[student.ID] = student
	return student
}

func (f *fakeStudentStore) Create(_ context.Context, student *models.Student) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	return f.add(student).ID, nil
}

func (f *fakeStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	student, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (f *fakeStudentStore) GetByEmail(_ context.Context, email string) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, student := range f.students {
		if strings.EqualFold(student.Email, email) {
			return student, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentStore) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, student := range f.students {
		if strings.EqualFold(student.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentStore) DeleteWithSnapshot(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	student, ok := f.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if f.requests != nil {
		f.requests.detachStudent(id, student)
	}
	delete(f.students, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeAdminStore is an in-memory AdminStore for service tests
type fakeAdminStore struct {
	admins map[string]*models.Admin
	err    error
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: make(map[string]*models.Admin)}
}

func (f *fakeAdminStore) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	admin, ok := f.admins[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.ErrAdminNotFound
	}
	return admin, nil
}

// fakeRequestStore is an in-memory RequestStore for service tests
type fakeRequestStore struct {
	mu       sync.Mutex
	requests map[int64]*models.MaintenanceRequest
	nextID   int64

	createErr error
	updateErr error
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{
		requests: make(map[int64]*models.MaintenanceRequest),
		nextID:   1,
	}
}

func (f *fakeRequestStore) Create(_ context.Context, student *models.Student, subject, description string) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	studentID := student.ID
	f.requests[id] = &models.MaintenanceRequest{
		ID:          id,
		StudentID:   &studentID,
		Subject:     subject,
		Description: description,
		Status:      models.StatusPending,
		FullName:    student.FullName,
		Residence:   student.Residence,
		Block:       student.Block,
	}
	return id, nil
}

func (f *fakeRequestStore) GetByID(_ context.Context, id int64) (*models.MaintenanceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	copied := *req
	return &copied, nil
}

func (f *fakeRequestStore) ListAll(_ context.Context) ([]*models.MaintenanceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.MaintenanceRequest, 0, len(f.requests))
	for _, req := range f.requests {
		copied := *req
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRequestStore) ListByBlock(_ context.Context, residence, block string) ([]*models.MaintenanceRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.MaintenanceRequest
	for _, req := range f.requests {
		if req.Residence == residence && req.Block == block {
			copied := *req
			out = append(out, &copied)
		}
	}
	return out, nil
}

// detachStudent snapshots the student's identity onto their requests and
// nulls the live reference, the way DeleteWithSnapshot does in one transaction
func (f *fakeRequestStore) detachStudent(id int64, student *models.Student) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.requests {
		if req.StudentID != nil && *req.StudentID == id {
			req.FullName = student.FullName
			req.Residence = student.Residence
			req.Block = student.Block
			req.StudentID = nil
		}
	}
}

func (f *fakeRequestStore) UpdateStatus(_ context.Context, id int64, status models.RequestStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	req.Status = status
	return nil
}

// publishedEvent records a single Publish call
type publishedEvent struct {
	Topic websocket.Topic
	Event websocket.Event
}

// fakePublisher records published events instead of delivering them
type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakePublisher) Publish(topic websocket.Topic, event websocket.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{Topic: topic, Event: event})
}

func (f *fakePublisher) published() []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]publishedEvent, len(f.events))
	copy(out, f.events)
	return out
}
