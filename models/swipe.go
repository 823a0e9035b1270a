package models

import "time"

type SwipeAction string

const (
	SwipeAccept SwipeAction = "ACCEPT"
	SwipeReject SwipeAction = "REJECT"
)

// Swipe records one directional judgment from swiper to target. At most
// one swipe exists per ordered (swiperId, targetId) pair and it is
// immutable once written.
type Swipe struct {
	ID        string      `dynamodbav:"id" json:"id"`
	SwiperID  string      `dynamodbav:"swiperId" json:"swiperId"`
	TargetID  string      `dynamodbav:"targetId" json:"targetId"`
	Action    SwipeAction `dynamodbav:"action" json:"action"`
	CreatedAt time.Time   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt time.Time   `dynamodbav:"updatedAt" json:"updatedAt"`
}

// SwipesTable is the DynamoDB table name for swipes.
const SwipesTable = "Swipes"

// SwiperIndex is the GSI used to fetch a tenant's swipe history.
const SwiperIndex = "swiperId-index"
