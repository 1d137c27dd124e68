package memory

import (
	"context"
	"sync"

	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
	"github.com/central-university-dev/go-hotel-sync/internal/domain/models"
)

type ConversationRepository struct {
	conversations map[int64]*models.Conversation
	mu            sync.Mutex
}

func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		conversations: make(map[int64]*models.Conversation),
	}
}

func (r *ConversationRepository) Find(_ context.Context, chatID int64) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, exists := r.conversations[chatID]
	if !exists {
		return nil, &customerrors.ErrConversationNotFound{ChatID: chatID}
	}

	copied := *conversation

	return &copied, nil
}

func (r *ConversationRepository) Ensure(_ context.Context, chatID int64, chatType models.ChatType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conversations[chatID]; !exists {
		r.conversations[chatID] = &models.Conversation{
			ChatID: chatID,
			Type:   chatType,
			Status: models.ConversationOpen,
		}
	}

	return nil
}

func (r *ConversationRepository) Claim(_ context.Context, chatID, employeeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, exists := r.conversations[chatID]
	if !exists {
		return &customerrors.ErrConversationNotFound{ChatID: chatID}
	}

	if conversation.Status != models.ConversationOpen {
		return &customerrors.ErrAlreadyClaimed{ChatID: chatID}
	}

	conversation.Status = models.ConversationClaimed
	conversation.AssignedEmployeeID = employeeID

	return nil
}

func (r *ConversationRepository) Reopen(_ context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, exists := r.conversations[chatID]
	if !exists {
		return nil
	}

	if conversation.Status != models.ConversationClaimed {
		return nil
	}

	conversation.Status = models.ConversationOpen
	conversation.AssignedEmployeeID = 0

	return nil
}

func (r *ConversationRepository) Close(_ context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, exists := r.conversations[chatID]
	if !exists {
		return &customerrors.ErrConversationNotFound{ChatID: chatID}
	}

	conversation.Status = models.ConversationClosed

	return nil
}
