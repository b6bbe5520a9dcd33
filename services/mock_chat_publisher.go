package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-club-hub/models"
)

// Ensure MockChatPublisher implements ChatPublisher
var _ ChatPublisher = (*MockChatPublisher)(nil)

// MockChatPublisher is a mock implementation for testing and extends `mock.Mock`
type MockChatPublisher struct {
	mock.Mock
}

// PublishChatMessage (Mocked)
func (m *MockChatPublisher) PublishChatMessage(ctx context.Context, clubID int64, msg models.ChatMessage) {
	m.Called(clubID, msg)
}
