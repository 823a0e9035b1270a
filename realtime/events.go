package realtime

import "time"

// Event types pushed to connected clients.
const (
	EventNewMessage           = "NEW_MESSAGE"
	EventNewSwipe             = "NEW_SWIPE"
	EventThreeWayConversation = "THREE_WAY_CONVERSATION_CREATED"
)

// NewMessageNotification tells a participant a message arrived in one of
// their conversations.
type NewMessageNotification struct {
	Type           string    `json:"type"`
	ConversationID string    `json:"conversationId"`
	MessageID      string    `json:"messageId"`
	SenderID       string    `json:"senderId"`
	SenderName     string    `json:"senderName"`
	Content        string    `json:"content"`
	MediaURLs      []string  `json:"mediaUrls,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewSwipeNotification tells a tenant someone accepted them. IsMatch is
// true when the swipe completed a reciprocal pair, in which case
// ConversationID carries the new conversation.
type NewSwipeNotification struct {
	Type           string    `json:"type"`
	SwiperID       string    `json:"swiperId"`
	SwiperName     string    `json:"swiperName"`
	IsMatch        bool      `json:"isMatch"`
	ConversationID string    `json:"conversationId,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// ParticipantInfo is the roster entry in a three-way notification.
type ParticipantInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// ThreeWayConversationNotification tells all three participants that a
// bookmark escalated into a conversation about a room.
type ThreeWayConversationNotification struct {
	Type           string            `json:"type"`
	ConversationID string            `json:"conversationId"`
	RoomID         string            `json:"roomId"`
	RoomTitle      string            `json:"roomTitle"`
	RoomImageURL   string            `json:"roomImageUrl,omitempty"`
	Participants   []ParticipantInfo `json:"participants"`
	Timestamp      time.Time         `json:"timestamp"`
}
