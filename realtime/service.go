package realtime

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Service pushes domain events to connected accounts. Every send is
// best-effort: undeliverable events are logged and dropped, never
// surfaced to the triggering operation.
type Service struct {
	hub *Hub
	log *zap.Logger
}

func NewService(hub *Hub, log *zap.Logger) *Service {
	return &Service{hub: hub, log: log}
}

// SendNewMessage notifies one recipient about a message.
func (s *Service) SendNewMessage(recipientID string, n NewMessageNotification) {
	n.Type = EventNewMessage
	n.Timestamp = time.Now()
	s.push(recipientID, n.Type, n)
}

// SendNewSwipe notifies the target of an accepting swipe.
func (s *Service) SendNewSwipe(recipientID string, n NewSwipeNotification) {
	n.Type = EventNewSwipe
	n.Timestamp = time.Now()
	s.push(recipientID, n.Type, n)
}

// SendThreeWayConversation notifies one participant of a new three-way
// conversation.
func (s *Service) SendThreeWayConversation(recipientID string, n ThreeWayConversationNotification) {
	n.Type = EventThreeWayConversation
	n.Timestamp = time.Now()
	s.push(recipientID, n.Type, n)
}

func (s *Service) push(recipientID, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("marshal event failed", zap.String("type", eventType), zap.Error(err))
		return
	}
	if !s.hub.SendToUser(recipientID, data) {
		s.log.Debug("event not delivered",
			zap.String("type", eventType), zap.String("recipientId", recipientID))
	}
}
