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
	"broomate_server/storage"
)

// ChatService handles messaging inside conversations.
type ChatService struct {
	Store    repository.Store
	Storage  storage.ObjectStorage
	Notifier Notifier
	Log      *zap.Logger
}

// MessageView is a message enriched with its sender's display info.
type MessageView struct {
	models.Message
	SenderName      string `json:"senderName"`
	SenderAvatarURL string `json:"senderAvatarUrl,omitempty"`
}

// ConversationDetail is the full view of one conversation.
type ConversationDetail struct {
	Conversation     models.Conversation        `json:"conversation"`
	Type             models.ConversationType    `json:"type"`
	Participants     []realtime.ParticipantInfo `json:"participants"`
	OtherParticipant *realtime.ParticipantInfo  `json:"otherParticipant,omitempty"`
	Messages         []MessageView              `json:"messages"`
}

// ConversationSummary is the listing view of one conversation.
type ConversationSummary struct {
	Conversation models.Conversation        `json:"conversation"`
	Type         models.ConversationType    `json:"type"`
	Participants []realtime.ParticipantInfo `json:"participants"`
}

// SendMessage stores a message with at most one media attachment. The
// attachment is uploaded first; if persisting the message fails
// afterwards, the uploaded object is deleted again before the error is
// surfaced. All other participants are notified best-effort.
func (s *ChatService) SendMessage(ctx context.Context, conversationID, senderID, content string, media *storage.File) (*models.Message, error) {
	conv, err := s.Store.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("%w: conversation %s", broomate_errors.ErrNotFound, conversationID)
	}
	if !conv.HasParticipant(senderID) {
		return nil, fmt.Errorf("%w: not a participant of conversation %s", broomate_errors.ErrForbidden, conversationID)
	}
	if content == "" && media == nil {
		return nil, fmt.Errorf("%w: message needs content or media", broomate_errors.ErrInvalidInput)
	}

	saga := storage.NewSaga()
	defer saga.Rollback(ctx)

	var mediaURLs []string
	if media != nil {
		folder := storage.FolderForContentType(media.ContentType)
		ref, err := s.Storage.UploadFile(ctx, *media, folder)
		if err != nil {
			return nil, err
		}
		saga.RecordDelete(s.Storage, ref)
		mediaURLs = []string{ref}
	}

	now := time.Now()
	msg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		MediaURLs:      mediaURLs,
		ReadBy:         []string{senderID},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Store.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}
	saga.Commit()

	conv.LastMessage = content
	if content == "" {
		conv.LastMessage = "[media]"
	}
	conv.LastMessageAt = now
	conv.UpdatedAt = now
	// The stored message stays; only the cache write failed, so the
	// media is not rolled back.
	if err := s.Store.UpdateConversation(ctx, conv); err != nil {
		return nil, err
	}

	sender, err := s.Store.FindAccountByID(ctx, senderID)
	senderName := senderID
	if err == nil && sender != nil {
		senderName = sender.Name
	}
	for _, id := range conv.ParticipantIDs {
		if id == senderID {
			continue
		}
		s.Notifier.SendNewMessage(id, realtime.NewMessageNotification{
			ConversationID: conversationID,
			MessageID:      msg.ID,
			SenderID:       senderID,
			SenderName:     senderName,
			Content:        content,
			MediaURLs:      mediaURLs,
		})
	}
	return msg, nil
}

// GetConversationDetail returns the conversation with its history and
// roster. Only participants may read it.
func (s *ChatService) GetConversationDetail(ctx context.Context, conversationID, accountID string) (*ConversationDetail, error) {
	conv, err := s.Store.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("%w: conversation %s", broomate_errors.ErrNotFound, conversationID)
	}
	if !conv.HasParticipant(accountID) {
		return nil, fmt.Errorf("%w: not a participant of conversation %s", broomate_errors.ErrForbidden, conversationID)
	}

	participants, err := s.resolveRoster(ctx, conv.ParticipantIDs)
	if err != nil {
		return nil, err
	}
	msgs, err := s.Store.FindMessagesByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]realtime.ParticipantInfo, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}
	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		view := MessageView{Message: m, SenderName: m.SenderID}
		if p, ok := byID[m.SenderID]; ok {
			view.SenderName = p.Name
			view.SenderAvatarURL = p.AvatarURL
		}
		views = append(views, view)
	}

	detail := &ConversationDetail{
		Conversation: *conv,
		Type:         conv.Type(),
		Participants: participants,
		Messages:     views,
	}
	if detail.Type == models.ConversationTwoWay {
		for i := range participants {
			if participants[i].ID != accountID {
				detail.OtherParticipant = &participants[i]
				break
			}
		}
	}
	return detail, nil
}

// ListConversations returns the caller's conversations with resolved
// rosters, newest activity first.
func (s *ChatService) ListConversations(ctx context.Context, accountID string) ([]ConversationSummary, error) {
	account, err := s.Store.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %s", broomate_errors.ErrNotFound, accountID)
	}
	convs, err := s.Store.FindConversationsByUser(ctx, accountID)
	if err != nil {
		return nil, err
	}
	summaries := make([]ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		roster, err := s.resolveRoster(ctx, conv.ParticipantIDs)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ConversationSummary{
			Conversation: conv,
			Type:         conv.Type(),
			Participants: roster,
		})
	}
	return summaries, nil
}

// resolveRoster looks up display info for each participant. Accounts
// that no longer resolve are carried with their id as name so history
// stays readable.
func (s *ChatService) resolveRoster(ctx context.Context, ids []string) ([]realtime.ParticipantInfo, error) {
	roster := make([]realtime.ParticipantInfo, 0, len(ids))
	for _, id := range ids {
		account, err := s.Store.FindAccountByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if account == nil {
			roster = append(roster, realtime.ParticipantInfo{ID: id, Name: id})
			continue
		}
		roster = append(roster, realtime.ParticipantInfo{
			ID:        account.ID,
			Name:      account.Name,
			Role:      string(account.Role),
			AvatarURL: account.AvatarURL,
		})
	}
	return roster, nil
}
