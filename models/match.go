package models

import "time"

type MatchStatus string

const (
	MatchStatusActive   MatchStatus = "ACTIVE"
	MatchStatusInactive MatchStatus = "INACTIVE"
	MatchStatusBlocked  MatchStatus = "BLOCKED"
)

// Match pairs two tenants after reciprocal ACCEPT swipes. The pair is
// unordered: (tenant1, tenant2) and (tenant2, tenant1) mean the same match,
// so lookups must test both orderings.
type Match struct {
	ID             string      `dynamodbav:"id" json:"id"`
	Tenant1ID      string      `dynamodbav:"tenant1Id" json:"tenant1Id"`
	Tenant2ID      string      `dynamodbav:"tenant2Id" json:"tenant2Id"`
	ConversationID string      `dynamodbav:"conversationId" json:"conversationId"`
	Status         MatchStatus `dynamodbav:"status" json:"status"`
	CreatedAt      time.Time   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time   `dynamodbav:"updatedAt" json:"updatedAt"`
}

// MatchesTable is the DynamoDB table name for matches.
const MatchesTable = "Matches"
