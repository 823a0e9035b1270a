package services

import "broomate_server/realtime"

// Notifier is the realtime surface the services push events through.
// Implementations are fire-and-forget; delivery failures never propagate
// back into the operation that triggered the event.
type Notifier interface {
	SendNewMessage(recipientID string, n realtime.NewMessageNotification)
	SendNewSwipe(recipientID string, n realtime.NewSwipeNotification)
	SendThreeWayConversation(recipientID string, n realtime.ThreeWayConversationNotification)
}
