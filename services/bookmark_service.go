package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"broomate_server/models"
	broomate_errors "broomate_server/pkg/errors"
	"broomate_server/realtime"
	"broomate_server/repository"
)

// threeWaySeedMessage is the system line opening every escalated
// conversation.
const threeWaySeedMessage = "Room viewing interest - 3-way conversation started"

// BookmarkService handles room bookmarks and their escalation into
// three-way conversations.
type BookmarkService struct {
	Store    repository.Store
	Notifier Notifier
	Log      *zap.Logger
}

// Escalation describes the three-way conversation a bookmark produced.
type Escalation struct {
	Conversation      *models.Conversation
	MatchedTenantID   string
	MatchedTenantName string
}

// BookmarkResult is the outcome of BookmarkRoom.
type BookmarkResult struct {
	Bookmark   *models.Bookmark
	Escalation *Escalation
}

// BookmarkRoom records the tenant's interest in a room. If another
// tenant the caller is matched with has also bookmarked it, a three-way
// conversation with the landlord is opened (or reused when the roster
// already exists). The first matched co-bookmarker found wins.
func (s *BookmarkService) BookmarkRoom(ctx context.Context, tenantID, roomID string) (*BookmarkResult, error) {
	tenant, err := s.Store.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: tenant %s", broomate_errors.ErrNotFound, tenantID)
	}
	room, err := s.Store.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("%w: room %s", broomate_errors.ErrNotFound, roomID)
	}
	existing, err := s.Store.FindBookmark(ctx, tenantID, roomID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: room %s already bookmarked", broomate_errors.ErrConflict, roomID)
	}

	now := time.Now()
	bookmark := &models.Bookmark{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		RoomID:    roomID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.SaveBookmark(ctx, bookmark); err != nil {
		return nil, err
	}

	escalation, err := s.escalate(ctx, tenant, room, bookmark)
	if err != nil {
		return nil, err
	}
	return &BookmarkResult{Bookmark: bookmark, Escalation: escalation}, nil
}

// escalate searches the room's other bookmarks for a tenant the caller
// is matched with, and opens (or reuses) the three-way conversation.
func (s *BookmarkService) escalate(ctx context.Context, tenant *models.Tenant, room *models.Room, bookmark *models.Bookmark) (*Escalation, error) {
	others, err := s.Store.FindBookmarksByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	var matched *models.Tenant
	for _, other := range others {
		if other.TenantID == tenant.ID {
			continue
		}
		ok, err := s.Store.AreTenantsMatched(ctx, tenant.ID, other.TenantID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		coTenant, err := s.Store.FindTenantByID(ctx, other.TenantID)
		if err != nil {
			return nil, err
		}
		if coTenant != nil {
			matched = coTenant
			break
		}
	}
	if matched == nil {
		return nil, nil
	}

	participants := []string{tenant.ID, matched.ID, room.LandlordID}
	conv, err := s.Store.FindConversationByParticipants(ctx, participants)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	created := false
	if conv == nil {
		conv = &models.Conversation{
			ID:             uuid.NewString(),
			ParticipantIDs: participants,
			LastMessage:    threeWaySeedMessage,
			LastMessageAt:  now,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.Store.SaveConversation(ctx, conv); err != nil {
			return nil, err
		}
		seed := &models.Message{
			ID:             uuid.NewString(),
			ConversationID: conv.ID,
			SenderID:       tenant.ID,
			Content:        threeWaySeedMessage,
			ReadBy:         []string{tenant.ID},
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.Store.SaveMessage(ctx, seed); err != nil {
			return nil, err
		}
		created = true
		s.Log.Info("three-way conversation created",
			zap.String("conversationId", conv.ID), zap.String("roomId", room.ID))
	}

	bookmark.TriggeredConversationID = conv.ID
	bookmark.UpdatedAt = now
	if err := s.Store.UpdateBookmark(ctx, bookmark); err != nil {
		return nil, err
	}

	// A reused conversation was announced when it was created; only a
	// fresh one fans out.
	if created {
		landlord, err := s.Store.FindLandlordByID(ctx, room.LandlordID)
		if err != nil {
			return nil, err
		}
		roster := []realtime.ParticipantInfo{
			{ID: tenant.ID, Name: tenant.Name, Role: string(models.RoleTenant), AvatarURL: tenant.AvatarURL},
			{ID: matched.ID, Name: matched.Name, Role: string(models.RoleTenant), AvatarURL: matched.AvatarURL},
		}
		if landlord != nil {
			roster = append(roster, realtime.ParticipantInfo{
				ID: landlord.ID, Name: landlord.Name, Role: string(models.RoleLandlord), AvatarURL: landlord.AvatarURL,
			})
		}
		notification := realtime.ThreeWayConversationNotification{
			ConversationID: conv.ID,
			RoomID:         room.ID,
			RoomTitle:      room.Title,
			RoomImageURL:   room.ThumbnailURL,
			Participants:   roster,
		}
		for _, id := range participants {
			s.Notifier.SendThreeWayConversation(id, notification)
		}
	}

	return &Escalation{
		Conversation:      conv,
		MatchedTenantID:   matched.ID,
		MatchedTenantName: matched.Name,
	}, nil
}

// UnbookmarkRoom removes the caller's bookmark on a room. Conversations
// the bookmark triggered are left untouched.
func (s *BookmarkService) UnbookmarkRoom(ctx context.Context, tenantID, roomID string) error {
	bookmark, err := s.Store.FindBookmark(ctx, tenantID, roomID)
	if err != nil {
		return err
	}
	if bookmark == nil {
		return fmt.Errorf("%w: bookmark for room %s", broomate_errors.ErrNotFound, roomID)
	}
	if bookmark.TenantID != tenantID {
		return fmt.Errorf("%w: bookmark belongs to another tenant", broomate_errors.ErrForbidden)
	}
	return s.Store.DeleteBookmark(ctx, bookmark.ID)
}

// ListBookmarks returns the caller's bookmarked rooms. Bookmarks whose
// room no longer resolves are pruned on the way out.
func (s *BookmarkService) ListBookmarks(ctx context.Context, tenantID string) ([]models.Room, error) {
	tenant, err := s.Store.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: tenant %s", broomate_errors.ErrNotFound, tenantID)
	}
	bookmarks, err := s.Store.FindBookmarksByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rooms := make([]models.Room, 0, len(bookmarks))
	for _, b := range bookmarks {
		room, err := s.Store.FindRoomByID(ctx, b.RoomID)
		if err != nil {
			return nil, err
		}
		if room == nil {
			if delErr := s.Store.DeleteBookmark(ctx, b.ID); delErr != nil {
				s.Log.Warn("orphan bookmark cleanup failed", zap.String("bookmarkId", b.ID), zap.Error(delErr))
			}
			continue
		}
		rooms = append(rooms, *room)
	}
	return rooms, nil
}
