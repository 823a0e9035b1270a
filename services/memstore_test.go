package services

import (
	"context"
	"fmt"
	"sync"

	"broomate_server/models"
	"broomate_server/realtime"
	"broomate_server/storage"
)

// memStore is an in-memory Store for service tests.
type memStore struct {
	mu            sync.Mutex
	tenants       map[string]*models.Tenant
	landlords     map[string]*models.Landlord
	swipes        map[string]*models.Swipe
	matches       map[string]*models.Match
	conversations map[string]*models.Conversation
	messages      map[string]*models.Message
	bookmarks     map[string]*models.Bookmark
	rooms         map[string]*models.Room

	failSaveMessage        bool
	failSaveMatch          bool
	failSaveConversation   bool
	failUpdateConversation bool
}

func newMemStore() *memStore {
	return &memStore{
		tenants:       make(map[string]*models.Tenant),
		landlords:     make(map[string]*models.Landlord),
		swipes:        make(map[string]*models.Swipe),
		matches:       make(map[string]*models.Match),
		conversations: make(map[string]*models.Conversation),
		messages:      make(map[string]*models.Message),
		bookmarks:     make(map[string]*models.Bookmark),
		rooms:         make(map[string]*models.Room),
	}
}

func (m *memStore) CreateTenant(_ context.Context, t *models.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tenants[t.ID] = &cp
	return nil
}

func (m *memStore) CreateLandlord(_ context.Context, l *models.Landlord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.landlords[l.ID] = &cp
	return nil
}

func (m *memStore) FindTenantByID(_ context.Context, id string) (*models.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tenants[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) FindLandlordByID(_ context.Context, id string) (*models.Landlord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.landlords[id]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) FindAccountByID(ctx context.Context, id string) (*models.Account, error) {
	if t, _ := m.FindTenantByID(ctx, id); t != nil {
		return &t.Account, nil
	}
	if l, _ := m.FindLandlordByID(ctx, id); l != nil {
		return &l.Account, nil
	}
	return nil, nil
}

func (m *memStore) FindTenantByEmail(_ context.Context, email string) (*models.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.Email == email {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindLandlordByEmail(_ context.Context, email string) (*models.Landlord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.landlords {
		if l.Email == email {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindActiveTenants(_ context.Context) ([]models.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Tenant
	for _, t := range m.tenants {
		if t.Active {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memStore) UpdateTenant(ctx context.Context, t *models.Tenant) error {
	return m.CreateTenant(ctx, t)
}

func (m *memStore) UpdateLandlord(ctx context.Context, l *models.Landlord) error {
	return m.CreateLandlord(ctx, l)
}

func (m *memStore) SaveSwipe(_ context.Context, s *models.Swipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.swipes[s.ID] = &cp
	return nil
}

func (m *memStore) FindSwipe(_ context.Context, swiperID, targetID string) (*models.Swipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.swipes {
		if s.SwiperID == swiperID && s.TargetID == targetID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindSwipesBySwiper(_ context.Context, swiperID string) ([]models.Swipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Swipe
	for _, s := range m.swipes {
		if s.SwiperID == swiperID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memStore) SaveMatch(_ context.Context, match *models.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaveMatch {
		return fmt.Errorf("save match: store unavailable")
	}
	cp := *match
	m.matches[match.ID] = &cp
	return nil
}

func (m *memStore) FindActiveMatchesByTenant(_ context.Context, tenantID string) ([]models.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Match
	for _, mt := range m.matches {
		if mt.Status != models.MatchStatusActive {
			continue
		}
		if mt.Tenant1ID == tenantID || mt.Tenant2ID == tenantID {
			out = append(out, *mt)
		}
	}
	return out, nil
}

func (m *memStore) AreTenantsMatched(_ context.Context, t1, t2 string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mt := range m.matches {
		if mt.Status != models.MatchStatusActive {
			continue
		}
		if (mt.Tenant1ID == t1 && mt.Tenant2ID == t2) || (mt.Tenant1ID == t2 && mt.Tenant2ID == t1) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SaveConversation(_ context.Context, c *models.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaveConversation {
		return fmt.Errorf("save conversation: store unavailable")
	}
	cp := *c
	m.conversations[c.ID] = &cp
	return nil
}

func (m *memStore) FindConversationByID(_ context.Context, id string) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.conversations[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) FindConversationsByUser(_ context.Context, accountID string) ([]models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Conversation
	for _, c := range m.conversations {
		if c.HasParticipant(accountID) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memStore) FindConversationByParticipants(_ context.Context, ids []string) (*models.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	for _, c := range m.conversations {
		if len(c.ParticipantIDs) != len(ids) {
			continue
		}
		all := true
		for _, id := range c.ParticipantIDs {
			if !want[id] {
				all = false
				break
			}
		}
		if all {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpdateConversation(_ context.Context, c *models.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdateConversation {
		return fmt.Errorf("update conversation: store unavailable")
	}
	cp := *c
	m.conversations[c.ID] = &cp
	return nil
}

func (m *memStore) SaveMessage(_ context.Context, msg *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaveMessage {
		return fmt.Errorf("save message: store unavailable")
	}
	cp := *msg
	m.messages[msg.ID] = &cp
	return nil
}

func (m *memStore) FindMessagesByConversation(_ context.Context, conversationID string) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *memStore) SaveBookmark(_ context.Context, b *models.Bookmark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.bookmarks[b.ID] = &cp
	return nil
}

func (m *memStore) UpdateBookmark(ctx context.Context, b *models.Bookmark) error {
	return m.SaveBookmark(ctx, b)
}

func (m *memStore) FindBookmark(_ context.Context, tenantID, roomID string) (*models.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookmarks {
		if b.TenantID == tenantID && b.RoomID == roomID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindBookmarksByRoom(_ context.Context, roomID string) ([]models.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Bookmark
	for _, b := range m.bookmarks {
		if b.RoomID == roomID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) FindBookmarksByTenant(_ context.Context, tenantID string) ([]models.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Bookmark
	for _, b := range m.bookmarks {
		if b.TenantID == tenantID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) DeleteBookmark(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookmarks, id)
	return nil
}

func (m *memStore) SaveRoom(_ context.Context, r *models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.rooms[r.ID] = &cp
	return nil
}

func (m *memStore) FindRoomByID(_ context.Context, id string) (*models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) FindPublishedRooms(_ context.Context) ([]models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Room
	for _, r := range m.rooms {
		if r.Status == models.RoomStatusPublished {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) FindRoomsByLandlord(_ context.Context, landlordID string) ([]models.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Room
	for _, r := range m.rooms {
		if r.LandlordID == landlordID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memStore) UpdateRoom(ctx context.Context, r *models.Room) error {
	return m.SaveRoom(ctx, r)
}

// fakeNotifier records every event instead of delivering it.
type fakeNotifier struct {
	mu        sync.Mutex
	messages  map[string][]realtime.NewMessageNotification
	swipes    map[string][]realtime.NewSwipeNotification
	threeWays map[string][]realtime.ThreeWayConversationNotification
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		messages:  make(map[string][]realtime.NewMessageNotification),
		swipes:    make(map[string][]realtime.NewSwipeNotification),
		threeWays: make(map[string][]realtime.ThreeWayConversationNotification),
	}
}

func (f *fakeNotifier) SendNewMessage(recipientID string, n realtime.NewMessageNotification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[recipientID] = append(f.messages[recipientID], n)
}

func (f *fakeNotifier) SendNewSwipe(recipientID string, n realtime.NewSwipeNotification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.swipes[recipientID] = append(f.swipes[recipientID], n)
}

func (f *fakeNotifier) SendThreeWayConversation(recipientID string, n realtime.ThreeWayConversationNotification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.threeWays[recipientID] = append(f.threeWays[recipientID], n)
}

// fakeStorage hands out deterministic refs and records deletions.
type fakeStorage struct {
	mu       sync.Mutex
	next     int
	uploaded []string
	deleted  []string
	failAt   int // fail the Nth upload (1-based); 0 never fails
	count    int
}

func (f *fakeStorage) UploadFile(_ context.Context, file storage.File, folder string) (string, error) {
	if err := storage.ValidateFile(file, folder); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	if f.failAt > 0 && f.count >= f.failAt {
		return "", fmt.Errorf("upload %s: storage unavailable", file.Name)
	}
	f.next++
	ref := fmt.Sprintf("https://store.test/%s/object-%d", folder, f.next)
	f.uploaded = append(f.uploaded, ref)
	return ref, nil
}

func (f *fakeStorage) UploadFiles(ctx context.Context, files []storage.File, folder string) ([]string, error) {
	var refs []string
	for _, file := range files {
		ref, err := f.UploadFile(ctx, file, folder)
		if err != nil {
			f.DeleteFiles(ctx, refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (f *fakeStorage) DeleteFile(_ context.Context, ref string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ref)
	return true
}

func (f *fakeStorage) DeleteFiles(ctx context.Context, refs []string) {
	for _, ref := range refs {
		f.DeleteFile(ctx, ref)
	}
}

func jpeg(name string, size int64) storage.File {
	return storage.File{Name: name, ContentType: "image/jpeg", Size: size, Data: []byte("x")}
}
