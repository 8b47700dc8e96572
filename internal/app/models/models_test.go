package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusIsValid(t *testing.T) {
	assert.True(t, StatusPending.IsValid())
	assert.True(t, StatusApproved.IsValid())
	assert.True(t, StatusCompleted.IsValid())

	assert.False(t, RequestStatus("").IsValid())
	assert.False(t, RequestStatus("pending").IsValid(), "status values are case sensitive")
	assert.False(t, RequestStatus("Rejected").IsValid())
}
