package ws

import (
	"playhub/internal/domain"

	"gorm.io/gorm"
)

// ChatStore persists chat messages durably. The hub treats a store failure as
// fatal to that message only, never to the process.
type ChatStore interface {
	SaveMessage(msg *domain.ChatMessage) error
}

// GormChatStore writes chat messages through GORM
type GormChatStore struct {
	db *gorm.DB
}

// NewGormChatStore creates a chat store over the given database
func NewGormChatStore(db *gorm.DB) *GormChatStore {
	return &GormChatStore{db: db}
}

// SaveMessage inserts one chat message row
func (s *GormChatStore) SaveMessage(msg *domain.ChatMessage) error {
	return s.db.Create(msg).Error
}
