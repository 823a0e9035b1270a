package repository

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"broomate_server/models"
)

func (s *DynamoStore) SaveRoom(ctx context.Context, room *models.Room) error {
	return s.DB.PutItem(ctx, models.RoomsTable, room)
}

func (s *DynamoStore) FindRoomByID(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	found, err := s.DB.GetItem(ctx, models.RoomsTable, idKey(id), &room)
	if err != nil || !found {
		return nil, err
	}
	return &room, nil
}

func (s *DynamoStore) FindPublishedRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Scan(ctx, models.RoomsTable, "#status = :status",
		map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(models.RoomStatusPublished)},
		},
		map[string]string{"#status": "status"}, &rooms)
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *DynamoStore) FindRoomsByLandlord(ctx context.Context, landlordID string) ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Scan(ctx, models.RoomsTable, "landlordId = :landlord",
		map[string]types.AttributeValue{
			":landlord": &types.AttributeValueMemberS{Value: landlordID},
		}, nil, &rooms)
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *DynamoStore) UpdateRoom(ctx context.Context, room *models.Room) error {
	return s.DB.PutItem(ctx, models.RoomsTable, room)
}
