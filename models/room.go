package models

import "time"

type RoomStatus string

const (
	RoomStatusPublished RoomStatus = "PUBLISHED"
	RoomStatusRented    RoomStatus = "RENTED"
)

// Room is a listing owned by exactly one landlord. Media fields hold
// time-limited signed references into the object store.
type Room struct {
	ID                string     `dynamodbav:"id" json:"id"`
	LandlordID        string     `dynamodbav:"landlordId" json:"landlordId"`
	Title             string     `dynamodbav:"title" json:"title"`
	Description       string     `dynamodbav:"description,omitempty" json:"description,omitempty"`
	ThumbnailURL      string     `dynamodbav:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	ImageURLs         []string   `dynamodbav:"imageUrls,omitempty" json:"imageUrls,omitempty"`
	VideoURLs         []string   `dynamodbav:"videoUrls,omitempty" json:"videoUrls,omitempty"`
	DocumentURLs      []string   `dynamodbav:"documentUrls,omitempty" json:"documentUrls,omitempty"`
	RentPricePerMonth float64    `dynamodbav:"rentPricePerMonth" json:"rentPricePerMonth"`
	MinimumStayMonths int        `dynamodbav:"minimumStayMonths,omitempty" json:"minimumStayMonths,omitempty"`
	Address           string     `dynamodbav:"address,omitempty" json:"address,omitempty"`
	Latitude          float64    `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude         float64    `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`
	NumberOfToilets   int        `dynamodbav:"numberOfToilets,omitempty" json:"numberOfToilets,omitempty"`
	NumberOfBedRooms  int        `dynamodbav:"numberOfBedRooms,omitempty" json:"numberOfBedRooms,omitempty"`
	HasWindow         bool       `dynamodbav:"hasWindow" json:"hasWindow"`
	Status            RoomStatus `dynamodbav:"status" json:"status"`
	CreatedAt         time.Time  `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time  `dynamodbav:"updatedAt" json:"updatedAt"`
}

// RoomsTable is the DynamoDB table name for rooms.
const RoomsTable = "Rooms"
