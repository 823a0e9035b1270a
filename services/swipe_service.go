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

// rejectionCooldown is how long a rejected tenant stays out of the
// rejecter's candidate feed.
const rejectionCooldown = 10 * time.Minute

// SwipeService implements the swipe/match state machine.
type SwipeService struct {
	Store    repository.Store
	Notifier Notifier
	Log      *zap.Logger
}

// SwipeResult reports what a recorded swipe produced.
type SwipeResult struct {
	Swipe        *models.Swipe
	MatchFormed  bool
	Match        *models.Match
	Conversation *models.Conversation
}

// RecordSwipe persists a swipe and, on a reciprocal ACCEPT, forms a
// match with its conversation. The target is notified on every ACCEPT;
// a REJECT is silent. On a match both tenants are notified.
func (s *SwipeService) RecordSwipe(ctx context.Context, swiperID, targetID string, action models.SwipeAction) (*SwipeResult, error) {
	if swiperID == targetID {
		return nil, fmt.Errorf("%w: cannot swipe on yourself", broomate_errors.ErrInvalidInput)
	}
	if action != models.SwipeAccept && action != models.SwipeReject {
		return nil, fmt.Errorf("%w: unknown swipe action %q", broomate_errors.ErrInvalidInput, action)
	}

	swiper, err := s.Store.FindTenantByID(ctx, swiperID)
	if err != nil {
		return nil, err
	}
	if swiper == nil {
		return nil, fmt.Errorf("%w: tenant %s", broomate_errors.ErrNotFound, swiperID)
	}
	target, err := s.Store.FindTenantByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("%w: tenant %s", broomate_errors.ErrNotFound, targetID)
	}

	existing, err := s.Store.FindSwipe(ctx, swiperID, targetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: already swiped on tenant %s", broomate_errors.ErrConflict, targetID)
	}

	now := time.Now()
	swipe := &models.Swipe{
		ID:        uuid.NewString(),
		SwiperID:  swiperID,
		TargetID:  targetID,
		Action:    action,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.SaveSwipe(ctx, swipe); err != nil {
		return nil, err
	}

	result := &SwipeResult{Swipe: swipe}
	if action == models.SwipeReject {
		return result, nil
	}

	// The plain acceptance notice goes out on every ACCEPT; when the
	// swipe completes a match the target also gets the match event.
	s.Notifier.SendNewSwipe(targetID, realtime.NewSwipeNotification{
		SwiperID:   swiperID,
		SwiperName: swiper.Name,
		IsMatch:    false,
	})

	reciprocal, err := s.Store.FindSwipe(ctx, targetID, swiperID)
	if err != nil {
		return nil, err
	}
	if reciprocal == nil || reciprocal.Action != models.SwipeAccept {
		return result, nil
	}

	// Reciprocal ACCEPT: conversation first, then the match that points
	// at it. A crash between the writes leaves an orphan conversation
	// rather than a match without one.
	conv := &models.Conversation{
		ID:             uuid.NewString(),
		ParticipantIDs: []string{swiperID, targetID},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Store.SaveConversation(ctx, conv); err != nil {
		return nil, err
	}
	match := &models.Match{
		ID:             uuid.NewString(),
		Tenant1ID:      swiperID,
		Tenant2ID:      targetID,
		ConversationID: conv.ID,
		Status:         models.MatchStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Store.SaveMatch(ctx, match); err != nil {
		return nil, err
	}
	s.Log.Info("match formed",
		zap.String("matchId", match.ID),
		zap.String("tenant1", swiperID),
		zap.String("tenant2", targetID))

	s.Notifier.SendNewSwipe(targetID, realtime.NewSwipeNotification{
		SwiperID:       swiperID,
		SwiperName:     swiper.Name,
		IsMatch:        true,
		ConversationID: conv.ID,
	})
	s.Notifier.SendNewSwipe(swiperID, realtime.NewSwipeNotification{
		SwiperID:       targetID,
		SwiperName:     target.Name,
		IsMatch:        true,
		ConversationID: conv.ID,
	})

	result.MatchFormed = true
	result.Match = match
	result.Conversation = conv
	return result, nil
}

// ListSwipeCandidates returns active tenants the caller can still swipe
// on. Excluded: the caller, anyone the caller already swiped on, recent
// rejections within the cooldown window, and counterparts of the
// caller's active matches. Already-swiped exclusion is permanent and so
// subsumes the cooldown; the cooldown check is kept for rejections whose
// swipe record might be pruned in the future.
func (s *SwipeService) ListSwipeCandidates(ctx context.Context, tenantID string) ([]models.Tenant, error) {
	caller, err := s.Store.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if caller == nil {
		return nil, fmt.Errorf("%w: tenant %s", broomate_errors.ErrNotFound, tenantID)
	}

	swipes, err := s.Store.FindSwipesBySwiper(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	excluded := map[string]bool{tenantID: true}
	cooldownEdge := time.Now().Add(-rejectionCooldown)
	for _, sw := range swipes {
		excluded[sw.TargetID] = true
		if sw.Action == models.SwipeReject && sw.CreatedAt.After(cooldownEdge) {
			excluded[sw.TargetID] = true
		}
	}

	matches, err := s.Store.FindActiveMatchesByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		excluded[m.Tenant1ID] = true
		excluded[m.Tenant2ID] = true
	}

	tenants, err := s.Store.FindActiveTenants(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]models.Tenant, 0, len(tenants))
	for _, t := range tenants {
		if !excluded[t.ID] {
			candidates = append(candidates, t)
		}
	}
	return candidates, nil
}

// ListMatches returns the caller's active matches.
func (s *SwipeService) ListMatches(ctx context.Context, tenantID string) ([]models.Match, error) {
	tenant, err := s.Store.FindTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: tenant %s", broomate_errors.ErrNotFound, tenantID)
	}
	return s.Store.FindActiveMatchesByTenant(ctx, tenantID)
}
