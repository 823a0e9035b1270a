package repository

import (
	"context"

	"broomate_server/models"
)

// AccountStore persists tenants and landlords. Lookups return (nil, nil)
// when no record exists; services translate that into a not-found error.
type AccountStore interface {
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
	CreateLandlord(ctx context.Context, landlord *models.Landlord) error
	FindTenantByID(ctx context.Context, id string) (*models.Tenant, error)
	FindLandlordByID(ctx context.Context, id string) (*models.Landlord, error)
	FindAccountByID(ctx context.Context, id string) (*models.Account, error)
	FindTenantByEmail(ctx context.Context, email string) (*models.Tenant, error)
	FindLandlordByEmail(ctx context.Context, email string) (*models.Landlord, error)
	FindActiveTenants(ctx context.Context) ([]models.Tenant, error)
	UpdateTenant(ctx context.Context, tenant *models.Tenant) error
	UpdateLandlord(ctx context.Context, landlord *models.Landlord) error
}

// SwipeStore persists swipe records.
type SwipeStore interface {
	SaveSwipe(ctx context.Context, swipe *models.Swipe) error
	FindSwipe(ctx context.Context, swiperID, targetID string) (*models.Swipe, error)
	FindSwipesBySwiper(ctx context.Context, swiperID string) ([]models.Swipe, error)
}

// MatchStore persists matches between tenant pairs.
type MatchStore interface {
	SaveMatch(ctx context.Context, match *models.Match) error
	FindActiveMatchesByTenant(ctx context.Context, tenantID string) ([]models.Match, error)
	AreTenantsMatched(ctx context.Context, tenant1ID, tenant2ID string) (bool, error)
}

// ConversationStore persists conversations.
type ConversationStore interface {
	SaveConversation(ctx context.Context, conv *models.Conversation) error
	FindConversationByID(ctx context.Context, id string) (*models.Conversation, error)
	FindConversationsByUser(ctx context.Context, accountID string) ([]models.Conversation, error)
	FindConversationByParticipants(ctx context.Context, participantIDs []string) (*models.Conversation, error)
	UpdateConversation(ctx context.Context, conv *models.Conversation) error
}

// MessageStore persists messages.
type MessageStore interface {
	SaveMessage(ctx context.Context, msg *models.Message) error
	FindMessagesByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
}

// BookmarkStore persists room bookmarks.
type BookmarkStore interface {
	SaveBookmark(ctx context.Context, bookmark *models.Bookmark) error
	UpdateBookmark(ctx context.Context, bookmark *models.Bookmark) error
	FindBookmark(ctx context.Context, tenantID, roomID string) (*models.Bookmark, error)
	FindBookmarksByRoom(ctx context.Context, roomID string) ([]models.Bookmark, error)
	FindBookmarksByTenant(ctx context.Context, tenantID string) ([]models.Bookmark, error)
	DeleteBookmark(ctx context.Context, id string) error
}

// RoomStore persists room listings.
type RoomStore interface {
	SaveRoom(ctx context.Context, room *models.Room) error
	FindRoomByID(ctx context.Context, id string) (*models.Room, error)
	FindPublishedRooms(ctx context.Context) ([]models.Room, error)
	FindRoomsByLandlord(ctx context.Context, landlordID string) ([]models.Room, error)
	UpdateRoom(ctx context.Context, room *models.Room) error
}

// Store is the full persistence surface the services depend on.
type Store interface {
	AccountStore
	SwipeStore
	MatchStore
	ConversationStore
	MessageStore
	BookmarkStore
	RoomStore
}

// DynamoStore implements Store on top of the shared Dynamo wrapper.
type DynamoStore struct {
	DB *Dynamo
}

var _ Store = (*DynamoStore)(nil)
