package models

import "time"

// Post represents a blog entry owned by exactly one user.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      int64     `json:"userId"`
	User        *User     `json:"user,omitempty"` // Owner, eager-loaded on reads
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
