package models

import "time"

type ExperienceStatus string

const (
	StatusDraft     ExperienceStatus = "draft"
	StatusPublished ExperienceStatus = "published"
	StatusBlocked   ExperienceStatus = "blocked"
)

type Experience struct {
	ExperienceID string           `json:"experienceid" bson:"experienceid"`
	Title        string           `json:"title" bson:"title"`
	Description  string           `json:"description" bson:"description"`
	Location     string           `json:"location" bson:"location"`
	Price        int64            `json:"price" bson:"price"`
	StartTime    time.Time        `json:"start_time" bson:"start_time"`
	Banner       string           `json:"banner,omitempty" bson:"banner,omitempty"`
	CreatedBy    string           `json:"createdby" bson:"createdby"`
	Status       ExperienceStatus `json:"status" bson:"status"`
	CreatedAt    time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" bson:"updated_at"`
}
