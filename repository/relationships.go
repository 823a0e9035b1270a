package repository

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"broomate_server/models"
)

func (s *DynamoStore) SaveSwipe(ctx context.Context, swipe *models.Swipe) error {
	return s.DB.PutItem(ctx, models.SwipesTable, swipe)
}

func (s *DynamoStore) FindSwipe(ctx context.Context, swiperID, targetID string) (*models.Swipe, error) {
	var swipes []models.Swipe
	err := s.DB.Scan(ctx, models.SwipesTable, "swiperId = :swiper AND targetId = :target",
		map[string]types.AttributeValue{
			":swiper": &types.AttributeValueMemberS{Value: swiperID},
			":target": &types.AttributeValueMemberS{Value: targetID},
		}, nil, &swipes)
	if err != nil || len(swipes) == 0 {
		return nil, err
	}
	return &swipes[0], nil
}

func (s *DynamoStore) FindSwipesBySwiper(ctx context.Context, swiperID string) ([]models.Swipe, error) {
	var swipes []models.Swipe
	err := s.DB.QueryIndex(ctx, models.SwipesTable, models.SwiperIndex, "swiperId = :swiper",
		map[string]types.AttributeValue{
			":swiper": &types.AttributeValueMemberS{Value: swiperID},
		}, nil, true, &swipes)
	if err != nil {
		return nil, err
	}
	return swipes, nil
}

func (s *DynamoStore) SaveMatch(ctx context.Context, match *models.Match) error {
	return s.DB.PutItem(ctx, models.MatchesTable, match)
}

func (s *DynamoStore) FindActiveMatchesByTenant(ctx context.Context, tenantID string) ([]models.Match, error) {
	var matches []models.Match
	err := s.DB.Scan(ctx, models.MatchesTable,
		"(tenant1Id = :tenant OR tenant2Id = :tenant) AND #status = :status",
		map[string]types.AttributeValue{
			":tenant": &types.AttributeValueMemberS{Value: tenantID},
			":status": &types.AttributeValueMemberS{Value: string(models.MatchStatusActive)},
		},
		map[string]string{"#status": "status"}, &matches)
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// AreTenantsMatched checks both orderings of the pair since matches are
// unordered.
func (s *DynamoStore) AreTenantsMatched(ctx context.Context, tenant1ID, tenant2ID string) (bool, error) {
	var matches []models.Match
	err := s.DB.Scan(ctx, models.MatchesTable,
		"((tenant1Id = :t1 AND tenant2Id = :t2) OR (tenant1Id = :t2 AND tenant2Id = :t1)) AND #status = :status",
		map[string]types.AttributeValue{
			":t1":     &types.AttributeValueMemberS{Value: tenant1ID},
			":t2":     &types.AttributeValueMemberS{Value: tenant2ID},
			":status": &types.AttributeValueMemberS{Value: string(models.MatchStatusActive)},
		},
		map[string]string{"#status": "status"}, &matches)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

func (s *DynamoStore) SaveConversation(ctx context.Context, conv *models.Conversation) error {
	return s.DB.PutItem(ctx, models.ConversationsTable, conv)
}

func (s *DynamoStore) FindConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	found, err := s.DB.GetItem(ctx, models.ConversationsTable, idKey(id), &conv)
	if err != nil || !found {
		return nil, err
	}
	return &conv, nil
}

func (s *DynamoStore) FindConversationsByUser(ctx context.Context, accountID string) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.DB.Scan(ctx, models.ConversationsTable, "contains(participantIds, :account)",
		map[string]types.AttributeValue{
			":account": &types.AttributeValueMemberS{Value: accountID},
		}, nil, &convs)
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// FindConversationByParticipants looks up the conversation whose roster
// equals the given set exactly, ignoring order. Scans on membership of
// the first participant, then compares sets client-side.
func (s *DynamoStore) FindConversationByParticipants(ctx context.Context, participantIDs []string) (*models.Conversation, error) {
	if len(participantIDs) == 0 {
		return nil, nil
	}
	convs, err := s.FindConversationsByUser(ctx, participantIDs[0])
	if err != nil {
		return nil, err
	}
	for i := range convs {
		if sameParticipantSet(convs[i].ParticipantIDs, participantIDs) {
			return &convs[i], nil
		}
	}
	return nil, nil
}

func (s *DynamoStore) UpdateConversation(ctx context.Context, conv *models.Conversation) error {
	return s.DB.PutItem(ctx, models.ConversationsTable, conv)
}

// sameParticipantSet reports whether two rosters contain the same ids,
// ignoring order.
func sameParticipantSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
