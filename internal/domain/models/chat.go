package models

import "time"

type ChatType string

const (
	ChatReception ChatType = "RECEPTION"
	ChatAI        ChatType = "AI"
)

type ConversationStatus string

const (
	ConversationOpen    ConversationStatus = "open"
	ConversationClaimed ConversationStatus = "claimed"
	ConversationClosed  ConversationStatus = "closed"
)

// Conversation — диалог гостя с ресепшн. Статусом владеет система бронирования,
// здесь контролируются только допустимые переходы.
type Conversation struct {
	ChatID             int64
	Type               ChatType
	Status             ConversationStatus
	AssignedEmployeeID int64
}

type SenderType string

const (
	SenderGuest    SenderType = "user"
	SenderEmployee SenderType = "employee"
	SenderAI       SenderType = "ai"
)

// ChatMessage — сообщение из удаленного чата API отеля.
type ChatMessage struct {
	ID        int64
	ChatID    int64
	Content   string
	Sender    SenderType
	CreatedAt time.Time
}
