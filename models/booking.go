package models

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	// BookingCancelled is reserved as a terminal status. No endpoint sets it
	// yet; the confirmed-uniqueness index deliberately excludes it so a
	// cancelled booking never blocks rebooking.
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	BookingID    string        `json:"bookingid" bson:"bookingid"`
	ExperienceID string        `json:"experienceid" bson:"experienceid"`
	UserID       string        `json:"userid" bson:"userid"`
	Seats        int           `json:"seats" bson:"seats"`
	Status       BookingStatus `json:"status" bson:"status"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" bson:"updated_at"`
}
