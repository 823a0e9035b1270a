package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"broomate_server/models"
	broomate_errors "broomate_server/pkg/errors"
	"broomate_server/repository"
	"broomate_server/storage"
)

// RoomService manages room listings and their media.
type RoomService struct {
	Store   repository.Store
	Storage storage.ObjectStorage
	Log     *zap.Logger
}

// RoomInput carries the scalar fields of a create or update request.
type RoomInput struct {
	Title             string
	Description       string
	RentPricePerMonth float64
	MinimumStayMonths int
	Address           string
	Latitude          float64
	Longitude         float64
	NumberOfToilets   int
	NumberOfBedRooms  int
	HasWindow         bool
}

// RoomMedia carries the media of a create or update request, one slice
// per storage category.
type RoomMedia struct {
	Thumbnail *storage.File
	Images    []storage.File
	Videos    []storage.File
	Documents []storage.File
}

// CreateRoom persists a new listing. The four media categories upload in
// parallel; if any category fails, objects stored by the others are
// deleted and no record is written.
func (s *RoomService) CreateRoom(ctx context.Context, landlordID string, input RoomInput, media RoomMedia) (*models.Room, error) {
	landlord, err := s.Store.FindLandlordByID(ctx, landlordID)
	if err != nil {
		return nil, err
	}
	if landlord == nil {
		return nil, fmt.Errorf("%w: landlord %s", broomate_errors.ErrNotFound, landlordID)
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: room title is required", broomate_errors.ErrInvalidInput)
	}

	saga := storage.NewSaga()
	defer saga.Rollback(ctx)

	uploaded, err := s.uploadCategories(ctx, media)
	if err != nil {
		return nil, err
	}
	saga.RecordDelete(s.Storage, uploaded.all()...)

	now := time.Now()
	room := &models.Room{
		ID:                uuid.NewString(),
		LandlordID:        landlordID,
		Title:             input.Title,
		Description:       input.Description,
		ThumbnailURL:      uploaded.thumbnail,
		ImageURLs:         uploaded.images,
		VideoURLs:         uploaded.videos,
		DocumentURLs:      uploaded.documents,
		RentPricePerMonth: input.RentPricePerMonth,
		MinimumStayMonths: input.MinimumStayMonths,
		Address:           input.Address,
		Latitude:          input.Latitude,
		Longitude:         input.Longitude,
		NumberOfToilets:   input.NumberOfToilets,
		NumberOfBedRooms:  input.NumberOfBedRooms,
		HasWindow:         input.HasWindow,
		Status:            models.RoomStatusPublished,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Store.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	saga.Commit()
	s.Log.Info("room created", zap.String("roomId", room.ID), zap.String("landlordId", landlordID))
	return room, nil
}

// UpdateRoom replaces the listing's scalar fields and merges new media
// into the existing categories. Removed references are deleted from
// storage only after the record write succeeds, so a failed write never
// loses media.
func (s *RoomService) UpdateRoom(ctx context.Context, landlordID, roomID string, input RoomInput, media RoomMedia, removals []string) (*models.Room, error) {
	room, err := s.Store.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("%w: room %s", broomate_errors.ErrNotFound, roomID)
	}
	if room.LandlordID != landlordID {
		return nil, fmt.Errorf("%w: room belongs to another landlord", broomate_errors.ErrForbidden)
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: room title is required", broomate_errors.ErrInvalidInput)
	}

	saga := storage.NewSaga()
	defer saga.Rollback(ctx)

	uploaded, err := s.uploadCategories(ctx, media)
	if err != nil {
		return nil, err
	}
	saga.RecordDelete(s.Storage, uploaded.all()...)

	removed := make(map[string]bool, len(removals))
	for _, ref := range removals {
		removed[ref] = true
	}
	oldThumbnail := room.ThumbnailURL

	room.Title = input.Title
	room.Description = input.Description
	room.RentPricePerMonth = input.RentPricePerMonth
	room.MinimumStayMonths = input.MinimumStayMonths
	room.Address = input.Address
	room.Latitude = input.Latitude
	room.Longitude = input.Longitude
	room.NumberOfToilets = input.NumberOfToilets
	room.NumberOfBedRooms = input.NumberOfBedRooms
	room.HasWindow = input.HasWindow
	if uploaded.thumbnail != "" {
		room.ThumbnailURL = uploaded.thumbnail
	}
	room.ImageURLs = mergeRefs(room.ImageURLs, uploaded.images, removed)
	room.VideoURLs = mergeRefs(room.VideoURLs, uploaded.videos, removed)
	room.DocumentURLs = mergeRefs(room.DocumentURLs, uploaded.documents, removed)
	room.UpdatedAt = time.Now()

	if err := s.Store.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}
	saga.Commit()

	var gone []string
	for ref := range removed {
		gone = append(gone, ref)
	}
	if uploaded.thumbnail != "" && oldThumbnail != "" {
		gone = append(gone, oldThumbnail)
	}
	s.Storage.DeleteFiles(ctx, gone)
	return room, nil
}

// SetRoomStatus flips a listing between PUBLISHED and RENTED.
func (s *RoomService) SetRoomStatus(ctx context.Context, landlordID, roomID string, status models.RoomStatus) (*models.Room, error) {
	if status != models.RoomStatusPublished && status != models.RoomStatusRented {
		return nil, fmt.Errorf("%w: unknown room status %q", broomate_errors.ErrInvalidInput, status)
	}
	room, err := s.Store.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("%w: room %s", broomate_errors.ErrNotFound, roomID)
	}
	if room.LandlordID != landlordID {
		return nil, fmt.Errorf("%w: room belongs to another landlord", broomate_errors.ErrForbidden)
	}
	room.Status = status
	room.UpdatedAt = time.Now()
	if err := s.Store.UpdateRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// GetRoom returns one listing.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := s.Store.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("%w: room %s", broomate_errors.ErrNotFound, roomID)
	}
	return room, nil
}

// ListPublishedRooms returns every listing tenants can browse.
func (s *RoomService) ListPublishedRooms(ctx context.Context) ([]models.Room, error) {
	return s.Store.FindPublishedRooms(ctx)
}

// ListRoomsByLandlord returns the landlord's own listings, any status.
func (s *RoomService) ListRoomsByLandlord(ctx context.Context, landlordID string) ([]models.Room, error) {
	landlord, err := s.Store.FindLandlordByID(ctx, landlordID)
	if err != nil {
		return nil, err
	}
	if landlord == nil {
		return nil, fmt.Errorf("%w: landlord %s", broomate_errors.ErrNotFound, landlordID)
	}
	return s.Store.FindRoomsByLandlord(ctx, landlordID)
}

// uploadedMedia collects the refs produced by one upload pass.
type uploadedMedia struct {
	mu        sync.Mutex
	thumbnail string
	images    []string
	videos    []string
	documents []string
}

func (u *uploadedMedia) all() []string {
	var refs []string
	if u.thumbnail != "" {
		refs = append(refs, u.thumbnail)
	}
	refs = append(refs, u.images...)
	refs = append(refs, u.videos...)
	refs = append(refs, u.documents...)
	return refs
}

// uploadCategories runs the four category uploads in parallel. On any
// failure the categories that succeeded are rolled back.
func (s *RoomService) uploadCategories(ctx context.Context, media RoomMedia) (*uploadedMedia, error) {
	uploaded := &uploadedMedia{}
	g, gctx := errgroup.WithContext(ctx)

	if media.Thumbnail != nil {
		g.Go(func() error {
			ref, err := s.Storage.UploadFile(gctx, *media.Thumbnail, storage.FolderThumbnails)
			if err != nil {
				return err
			}
			uploaded.mu.Lock()
			uploaded.thumbnail = ref
			uploaded.mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		refs, err := s.Storage.UploadFiles(gctx, media.Images, storage.FolderImages)
		if err != nil {
			return err
		}
		uploaded.mu.Lock()
		uploaded.images = refs
		uploaded.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		refs, err := s.Storage.UploadFiles(gctx, media.Videos, storage.FolderVideos)
		if err != nil {
			return err
		}
		uploaded.mu.Lock()
		uploaded.videos = refs
		uploaded.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		refs, err := s.Storage.UploadFiles(gctx, media.Documents, storage.FolderDocuments)
		if err != nil {
			return err
		}
		uploaded.mu.Lock()
		uploaded.documents = refs
		uploaded.mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		s.Storage.DeleteFiles(ctx, uploaded.all())
		return nil, err
	}
	return uploaded, nil
}

// mergeRefs keeps existing refs not slated for removal and appends the
// newly uploaded ones.
func mergeRefs(existing, added []string, removed map[string]bool) []string {
	merged := make([]string, 0, len(existing)+len(added))
	for _, ref := range existing {
		if !removed[ref] {
			merged = append(merged, ref)
		}
	}
	return append(merged, added...)
}
