package eventlog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCleanupJob_Process(t *testing.T) {
	mockRepo := new(MockRepository)
	job := NewCleanupJob(NewService(mockRepo), 10)

	mockRepo.On("CleanupOldEvents", mock.Anything, 10).Return(int64(100), nil)

	assert.NoError(t, job.Process(context.Background()))
	mockRepo.AssertExpectations(t)
}

func TestCleanupJob_ProcessError(t *testing.T) {
	mockRepo := new(MockRepository)
	job := NewCleanupJob(NewService(mockRepo), 30)

	mockRepo.On("CleanupOldEvents", mock.Anything, 30).Return(int64(0), errors.New("boom"))

	assert.Error(t, job.Process(context.Background()))
}
