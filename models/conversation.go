package models

import "time"

type ConversationType string

const (
	ConversationTwoWay   ConversationType = "TWO_WAY"
	ConversationThreeWay ConversationType = "THREE_WAY"
)

// Conversation holds 2 participants (from a match) or 3 (from a bookmark
// escalation), plus a denormalized last-message cache for listing views.
// No two conversations may share the exact same participant set.
type Conversation struct {
	ID             string    `dynamodbav:"id" json:"id"`
	ParticipantIDs []string  `dynamodbav:"participantIds" json:"participantIds"`
	LastMessage    string    `dynamodbav:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageAt  time.Time `dynamodbav:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	CreatedAt      time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}

// Type derives the conversation kind from the participant count.
func (c Conversation) Type() ConversationType {
	if len(c.ParticipantIDs) >= 3 {
		return ConversationThreeWay
	}
	return ConversationTwoWay
}

// HasParticipant reports whether the given account takes part in the
// conversation.
func (c Conversation) HasParticipant(accountID string) bool {
	for _, id := range c.ParticipantIDs {
		if id == accountID {
			return true
		}
	}
	return false
}

// ConversationsTable is the DynamoDB table name for conversations.
const ConversationsTable = "Conversations"
