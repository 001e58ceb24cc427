package entity

import "time"

// Memory is one stored user context item: a preference, interaction or
// free-form context document keyed by type and key.
type Memory struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"user_id"`
	MemoryType string         `json:"memory_type"`
	Key        string         `json:"key"`
	Value      map[string]any `json:"value"`

	// Importance is a 1-10 scale used for retrieval ordering.
	Importance int `json:"importance"`

	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
}
