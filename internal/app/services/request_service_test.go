package services

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescare/rescare/internal/app/models"
	"github.com/rescare/rescare/internal/app/models/dto"
	"github.com/rescare/rescare/internal/pkg/apperrors"
	"github.com/rescare/rescare/internal/pkg/websocket"
)

func newRequestFixture() (*RequestService, *fakeRequestStore, *fakeStudentStore, *fakePublisher) {
	requests := newFakeRequestStore()
	students := newFakeStudentStore()
	publisher := &fakePublisher{}
	service := NewRequestService(requests, students, publisher, zerolog.Nop())
	return service, requests, students, publisher
}

func TestCreateRequestValidation(t *testing.T) {
	tests := []struct {
		name        string
		subject     string
		description string
	}{
		{"empty subject", "   ", "The tap is leaking"},
		{"empty description", "Leaking tap", ""},
		{"subject too long", strings.Repeat("x", 256), "The tap is leaking"},
		{"description too long", "Leaking tap", strings.Repeat("x", 1001)},
		{"multi-byte subject too long", strings.Repeat("é", 256), "The tap is leaking"},
		{"multi-byte description too long", "Leaking tap", strings.Repeat("é", 1001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, requests, students, publisher := newRequestFixture()
			students.add(&models.Student{FullName: "Thabo", Residence: "Madiba House", Block: "B"})

			_, err := service.Create(context.Background(), 1, tt.subject, tt.description)
			require.Error(t, err)
			assert.Empty(t, requests.requests)
			assert.Empty(t, publisher.published(), "nothing should be broadcast on failure")
		})
	}
}

func TestCreateRequestUnknownStudent(t *testing.T) {
	service, _, _, publisher := newRequestFixture()

	_, err := service.Create(context.Background(), 42, "Leaking tap", "The tap is leaking")
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.Empty(t, publisher.published())
}

func TestCreateRequestDefaultsToPending(t *testing.T) {
	service, _, students, _ := newRequestFixture()
	students.add(&models.Student{FullName: "Thabo", Residence: "Madiba House", Block: "B"})

	created, err := service.Create(context.Background(), 1, "  Leaking tap  ", "The tap is leaking")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, "Leaking tap", created.Subject, "subject should be trimmed")
	assert.Equal(t, "Thabo", created.FullName)
	require.NotNil(t, created.StudentID)
	assert.Equal(t, int64(1), *created.StudentID)
}

func TestCreateRequestLimitsCountCharactersNotBytes(t *testing.T) {
	service, _, students, _ := newRequestFixture()
	students.add(&models.Student{FullName: "Thabo", Residence: "Madiba House", Block: "B"})

	// 200 two-byte characters: 400 bytes but well under the 255-character limit
	subject := strings.Repeat("é", 200)

	created, err := service.Create(context.Background(), 1, subject, "The tap is leaking")
	require.NoError(t, err)
	assert.Equal(t, subject, created.Subject)
}

func TestCreateRequestBroadcastsToBothTopics(t *testing.T) {
	service, _, students, publisher := newRequestFixture()
	students.add(&models.Student{FullName: "Thabo", Residence: "Madiba House", Block: "B"})

	created, err := service.Create(context.Background(), 1, "Leaking tap", "The tap is leaking")
	require.NoError(t, err)

	events := publisher.published()
	require.Len(t, events, 2)

	assert.Equal(t, websocket.TopicAdmin, events[0].Topic)
	assert.Equal(t, websocket.BlockTopic("Madiba House", "B"), events[1].Topic)

	for _, e := range events {
		assert.Equal(t, websocket.EventNewRequest, e.Event.Name)
		payload, ok := e.Event.Data.(dto.RequestResponse)
		require.True(t, ok)
		assert.Equal(t, created.ID, payload.ID)
		assert.Equal(t, string(models.StatusPending), payload.Status)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	service, requests, students, publisher := newRequestFixture()
	students.add(&models.Student{FullName: "Thabo", Residence: "Madiba House", Block: "B"})
	_, err := service.Create(context.Background(), 1, "Leaking tap", "The tap is leaking")
	require.NoError(t, err)

	_, err = service.UpdateStatus(context.Background(), 1, "Rejected")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)

	stored, err := requests.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status, "a rejected transition must not mutate the record")
	assert.Len(t, publisher.published(), 2, "only the creation broadcast should have happened")
}

func TestUpdateStatusUnknownRequest(t *testing.T) {
	service, _, _, publisher := newRequestFixture()

	_, err := service.UpdateStatus(context.Background(), 99, string(models.StatusApproved))
	assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)
	assert.Empty(t, publisher.published())
}

func TestUpdateStatusBroadcastsUpdatedRecord(t *testing.T) {
	service, _, students, publisher := newRequestFixture()
	students.add(&models.Student{FullName: "Thabo", Residence: "Madiba House", Block: "B"})
	_, err := service.Create(context.Background(), 1, "Leaking tap", "The tap is leaking")
	require.NoError(t, err)

	updated, err := service.UpdateStatus(context.Background(), 1, string(models.StatusCompleted))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	events := publisher.published()
	require.Len(t, events, 4)

	assert.Equal(t, websocket.EventRequestUpdated, events[2].Event.Name)
	assert.Equal(t, websocket.TopicAdmin, events[2].Topic)
	assert.Equal(t, websocket.BlockTopic("Madiba House", "B"), events[3].Topic)

	payload, ok := events[2].Event.Data.(dto.RequestResponse)
	require.True(t, ok)
	assert.Equal(t, string(models.StatusCompleted), payload.Status)
}

func TestUpdateStatusAllowsBackwardTransition(t *testing.T) {
	service, _, students, _ := newRequestFixture()
	students.add(&models.Student{FullName: "Thabo", Residence: "Madiba House", Block: "B"})
	_, err := service.Create(context.Background(), 1, "Leaking tap", "The tap is leaking")
	require.NoError(t, err)

	_, err = service.UpdateStatus(context.Background(), 1, string(models.StatusCompleted))
	require.NoError(t, err)

	updated, err := service.UpdateStatus(context.Background(), 1, string(models.StatusPending))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)
}

func TestListByBlockFiltersRequests(t *testing.T) {
	service, _, students, _ := newRequestFixture()
	students.add(&models.Student{FullName: "Thabo", Residence: "Madiba House", Block: "B"})
	students.add(&models.Student{FullName: "Lerato", Residence: "Madiba House", Block: "C"})

	_, err := service.Create(context.Background(), 1, "Leaking tap", "The tap is leaking")
	require.NoError(t, err)
	_, err = service.Create(context.Background(), 2, "Broken window", "Window latch is broken")
	require.NoError(t, err)

	blockB, err := service.ListByBlock(context.Background(), "Madiba House", "B")
	require.NoError(t, err)
	require.Len(t, blockB, 1)
	assert.Equal(t, "Leaking tap", blockB[0].Subject)

	all, err := service.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
