package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"broomate_server/models"
)

func (s *DynamoStore) SaveBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	return s.DB.PutItem(ctx, models.BookmarksTable, bookmark)
}

func (s *DynamoStore) UpdateBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	return s.DB.PutItem(ctx, models.BookmarksTable, bookmark)
}

func (s *DynamoStore) FindBookmark(ctx context.Context, tenantID, roomID string) (*models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := s.DB.Scan(ctx, models.BookmarksTable, "tenantId = :tenant AND roomId = :room",
		map[string]types.AttributeValue{
			":tenant": &types.AttributeValueMemberS{Value: tenantID},
			":room":   &types.AttributeValueMemberS{Value: roomID},
		}, nil, &bookmarks)
	if err != nil || len(bookmarks) == 0 {
		return nil, err
	}
	return &bookmarks[0], nil
}

func (s *DynamoStore) FindBookmarksByRoom(ctx context.Context, roomID string) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := s.DB.Scan(ctx, models.BookmarksTable, "roomId = :room",
		map[string]types.AttributeValue{
			":room": &types.AttributeValueMemberS{Value: roomID},
		}, nil, &bookmarks)
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func (s *DynamoStore) FindBookmarksByTenant(ctx context.Context, tenantID string) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := s.DB.Scan(ctx, models.BookmarksTable, "tenantId = :tenant",
		map[string]types.AttributeValue{
			":tenant": &types.AttributeValueMemberS{Value: tenantID},
		}, nil, &bookmarks)
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func (s *DynamoStore) DeleteBookmark(ctx context.Context, id string) error {
	return s.DB.DeleteItem(ctx, models.BookmarksTable, idKey(id))
}
