package models

import "time"

type Task struct {
	TaskID      string    `json:"taskid" bson:"taskid"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Done        bool      `json:"done" bson:"done"`
	Owner       string    `json:"owner" bson:"owner"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}
