package models

import "time"

// Bookmark links a tenant to a room, at most once per (tenantId, roomId)
// pair. TriggeredConversationID records the three-way conversation the
// bookmark escalated into, when one was created.
type Bookmark struct {
	ID                      string    `dynamodbav:"id" json:"id"`
	TenantID                string    `dynamodbav:"tenantId" json:"tenantId"`
	RoomID                  string    `dynamodbav:"roomId" json:"roomId"`
	TriggeredConversationID string    `dynamodbav:"triggeredConversationId,omitempty" json:"triggeredConversationId,omitempty"`
	CreatedAt               time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt               time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}

// BookmarksTable is the DynamoDB table name for bookmarks.
const BookmarksTable = "Bookmarks"
