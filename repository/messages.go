package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"broomate_server/models"
)

func (s *DynamoStore) SaveMessage(ctx context.Context, msg *models.Message) error {
	return s.DB.PutItem(ctx, models.MessagesTable, msg)
}

// FindMessagesByConversation returns the conversation history in
// chronological order via the conversationId GSI.
func (s *DynamoStore) FindMessagesByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.QueryIndex(ctx, models.MessagesTable, models.ConversationIndex, "conversationId = :conv",
		map[string]types.AttributeValue{
			":conv": &types.AttributeValueMemberS{Value: conversationID},
		}, nil, true, &msgs)
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
