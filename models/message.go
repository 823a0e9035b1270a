package models

import "time"

// Message belongs to exactly one conversation. MediaURLs carries at
// most one reference. Immutable once created except for ReadBy growing
// as participants read it.
type Message struct {
	ID             string    `dynamodbav:"id" json:"id"`
	ConversationID string    `dynamodbav:"conversationId" json:"conversationId"`
	SenderID       string    `dynamodbav:"senderId" json:"senderId"`
	Content        string    `dynamodbav:"content" json:"content"`
	MediaURLs      []string  `dynamodbav:"mediaUrls,omitempty" json:"mediaUrls,omitempty"`
	ReadBy         []string  `dynamodbav:"readBy" json:"readBy"`
	CreatedAt      time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}

// MessagesTable is the DynamoDB table name for messages.
const MessagesTable = "Messages"

// ConversationIndex is the GSI keyed by conversationId with createdAt as
// the sort key; conversation history reads go through it.
const ConversationIndex = "conversationId-index"
