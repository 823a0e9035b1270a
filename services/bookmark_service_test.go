package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"broomate_server/models"
	broomate_errors "broomate_server/pkg/errors"
)

func seedLandlord(t *testing.T, store *memStore, id, name string) {
	t.Helper()
	err := store.CreateLandlord(context.Background(), &models.Landlord{
		Account: models.Account{
			ID:     id,
			Email:  id + "@example.com",
			Name:   name,
			Role:   models.RoleLandlord,
			Active: true,
		},
	})
	if err != nil {
		t.Fatalf("seed landlord %s: %v", id, err)
	}
}

func seedRoom(t *testing.T, store *memStore, id, landlordID string) {
	t.Helper()
	err := store.SaveRoom(context.Background(), &models.Room{
		ID:         id,
		LandlordID: landlordID,
		Title:      "Sunny room",
		Status:     models.RoomStatusPublished,
	})
	if err != nil {
		t.Fatalf("seed room %s: %v", id, err)
	}
}

func newBookmarkService(store *memStore, notifier *fakeNotifier) *BookmarkService {
	return &BookmarkService{Store: store, Notifier: notifier, Log: zap.NewNop()}
}

func matchTenants(t *testing.T, store *memStore, t1, t2 string) {
	t.Helper()
	err := store.SaveMatch(context.Background(), &models.Match{
		ID: "match-" + t1 + "-" + t2, Tenant1ID: t1, Tenant2ID: t2,
		Status: models.MatchStatusActive,
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
}

func TestBookmarkRoomUnknownRoom(t *testing.T) {
	store := newMemStore()
	seedTenant(t, store, "t1", "Alice")
	svc := newBookmarkService(store, newFakeNotifier())

	_, err := svc.BookmarkRoom(context.Background(), "t1", "ghost")
	if !errors.Is(err, broomate_errors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBookmarkRoomDuplicate(t *testing.T) {
	store := newMemStore()
	seedTenant(t, store, "t1", "Alice")
	seedLandlord(t, store, "l1", "Lana")
	seedRoom(t, store, "r1", "l1")
	svc := newBookmarkService(store, newFakeNotifier())

	if _, err := svc.BookmarkRoom(context.Background(), "t1", "r1"); err != nil {
		t.Fatalf("first bookmark: %v", err)
	}
	_, err := svc.BookmarkRoom(context.Background(), "t1", "r1")
	if !errors.Is(err, broomate_errors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestBookmarkRoomWithoutMatchedCoBookmarker(t *testing.T) {
	store := newMemStore()
	seedTenant(t, store, "t1", "Alice")
	seedTenant(t, store, "t2", "Bob")
	seedLandlord(t, store, "l1", "Lana")
	seedRoom(t, store, "r1", "l1")
	// t2 bookmarked the room but is not matched with t1.
	store.SaveBookmark(context.Background(), &models.Bookmark{ID: "b0", TenantID: "t2", RoomID: "r1"})

	svc := newBookmarkService(store, newFakeNotifier())
	result, err := svc.BookmarkRoom(context.Background(), "t1", "r1")
	if err != nil {
		t.Fatalf("bookmark: %v", err)
	}
	if result.Escalation != nil {
		t.Fatal("unmatched co-bookmarker must not escalate")
	}
}

func TestBookmarkRoomEscalatesToThreeWay(t *testing.T) {
	store := newMemStore()
	seedTenant(t, store, "t1", "Alice")
	seedTenant(t, store, "t2", "Bob")
	seedLandlord(t, store, "l1", "Lana")
	seedRoom(t, store, "r1", "l1")
	matchTenants(t, store, "t1", "t2")
	store.SaveBookmark(context.Background(), &models.Bookmark{ID: "b0", TenantID: "t2", RoomID: "r1"})

	notifier := newFakeNotifier()
	svc := newBookmarkService(store, notifier)
	result, err := svc.BookmarkRoom(context.Background(), "t1", "r1")
	if err != nil {
		t.Fatalf("bookmark: %v", err)
	}
	if result.Escalation == nil {
		t.Fatal("matched co-bookmarker must escalate")
	}
	conv := result.Escalation.Conversation
	if len(conv.ParticipantIDs) != 3 {
		t.Fatalf("expected 3 participants, got %d", len(conv.ParticipantIDs))
	}
	if !conv.HasParticipant("t1") || !conv.HasParticipant("t2") || !conv.HasParticipant("l1") {
		t.Fatalf("roster is wrong: %v", conv.ParticipantIDs)
	}
	if result.Escalation.MatchedTenantID != "t2" {
		t.Fatalf("expected matched tenant t2, got %s", result.Escalation.MatchedTenantID)
	}

	msgs, err := store.FindMessagesByConversation(context.Background(), conv.ID)
	if err != nil {
		t.Fatalf("load messages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Content != threeWaySeedMessage {
		t.Fatalf("expected seed message, got %v", msgs)
	}

	for _, id := range []string{"t1", "t2", "l1"} {
		got := notifier.threeWays[id]
		if len(got) != 1 {
			t.Fatalf("expected 1 three-way notification for %s, got %d", id, len(got))
		}
		if got[0].ConversationID != conv.ID || got[0].RoomID != "r1" {
			t.Fatalf("notification for %s carries wrong ids", id)
		}
		if got[0].RoomTitle != "Sunny room" {
			t.Fatalf("notification for %s carries wrong room title", id)
		}
		if len(got[0].Participants) != 3 {
			t.Fatalf("notification for %s carries wrong roster size", id)
		}
	}

	bookmark, err := store.FindBookmark(context.Background(), "t1", "r1")
	if err != nil {
		t.Fatalf("load bookmark: %v", err)
	}
	if bookmark.TriggeredConversationID != conv.ID {
		t.Fatal("bookmark must record the conversation it triggered")
	}
}

func TestBookmarkRoomReusesExistingRoster(t *testing.T) {
	store := newMemStore()
	seedTenant(t, store, "t1", "Alice")
	seedTenant(t, store, "t2", "Bob")
	seedLandlord(t, store, "l1", "Lana")
	seedRoom(t, store, "r1", "l1")
	seedRoom(t, store, "r2", "l1")
	matchTenants(t, store, "t1", "t2")
	store.SaveBookmark(context.Background(), &models.Bookmark{ID: "b0", TenantID: "t2", RoomID: "r1"})
	store.SaveBookmark(context.Background(), &models.Bookmark{ID: "b1", TenantID: "t2", RoomID: "r2"})

	notifier := newFakeNotifier()
	svc := newBookmarkService(store, notifier)
	first, err := svc.BookmarkRoom(context.Background(), "t1", "r1")
	if err != nil {
		t.Fatalf("bookmark r1: %v", err)
	}
	second, err := svc.BookmarkRoom(context.Background(), "t1", "r2")
	if err != nil {
		t.Fatalf("bookmark r2: %v", err)
	}
	if second.Escalation == nil {
		t.Fatal("second room must still escalate")
	}
	// Same landlord and tenant pair: the roster already exists, so the
	// conversation is reused and no second seed message is written.
	if second.Escalation.Conversation.ID != first.Escalation.Conversation.ID {
		t.Fatal("identical roster must reuse the conversation")
	}
	msgs, _ := store.FindMessagesByConversation(context.Background(), first.Escalation.Conversation.ID)
	if len(msgs) != 1 {
		t.Fatalf("expected a single seed message, got %d", len(msgs))
	}
	// Only the creation announced the conversation; the reuse is silent.
	for _, id := range []string{"t1", "t2", "l1"} {
		if got := notifier.threeWays[id]; len(got) != 1 {
			t.Fatalf("expected 1 three-way notification for %s, got %d", id, len(got))
		}
	}
}

func TestBookmarkRoomEscalationStoreFailurePropagates(t *testing.T) {
	store := newMemStore()
	seedTenant(t, store, "t1", "Alice")
	seedTenant(t, store, "t2", "Bob")
	seedLandlord(t, store, "l1", "Lana")
	seedRoom(t, store, "r1", "l1")
	matchTenants(t, store, "t1", "t2")
	store.SaveBookmark(context.Background(), &models.Bookmark{ID: "b0", TenantID: "t2", RoomID: "r1"})
	store.failSaveConversation = true

	notifier := newFakeNotifier()
	svc := newBookmarkService(store, notifier)
	_, err := svc.BookmarkRoom(context.Background(), "t1", "r1")
	if err == nil {
		t.Fatal("conversation store failure must surface")
	}
	for id := range notifier.threeWays {
		t.Fatalf("no three-way notification may go out on failure, got one for %s", id)
	}
}

func TestUnbookmarkRoom(t *testing.T) {
	store := newMemStore()
	seedTenant(t, store, "t1", "Alice")
	seedLandlord(t, store, "l1", "Lana")
	seedRoom(t, store, "r1", "l1")
	svc := newBookmarkService(store, newFakeNotifier())

	if _, err := svc.BookmarkRoom(context.Background(), "t1", "r1"); err != nil {
		t.Fatalf("bookmark: %v", err)
	}
	if err := svc.UnbookmarkRoom(context.Background(), "t1", "r1"); err != nil {
		t.Fatalf("unbookmark: %v", err)
	}
	err := svc.UnbookmarkRoom(context.Background(), "t1", "r1")
	if !errors.Is(err, broomate_errors.ErrNotFound) {
		t.Fatalf("expected not found after removal, got %v", err)
	}
}

func TestListBookmarksPrunesOrphans(t *testing.T) {
	store := newMemStore()
	seedTenant(t, store, "t1", "Alice")
	seedLandlord(t, store, "l1", "Lana")
	seedRoom(t, store, "r1", "l1")
	store.SaveBookmark(context.Background(), &models.Bookmark{ID: "b1", TenantID: "t1", RoomID: "r1"})
	store.SaveBookmark(context.Background(), &models.Bookmark{ID: "b2", TenantID: "t1", RoomID: "deleted-room"})

	svc := newBookmarkService(store, newFakeNotifier())
	rooms, err := svc.ListBookmarks(context.Background(), "t1")
	if err != nil {
		t.Fatalf("list bookmarks: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != "r1" {
		t.Fatalf("expected only room r1, got %v", rooms)
	}
	if orphan, _ := store.FindBookmark(context.Background(), "t1", "deleted-room"); orphan != nil {
		t.Fatal("orphan bookmark should have been pruned")
	}
}
