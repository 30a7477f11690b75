package storage

import "time"

// User represents a workspace member.
type User struct {
	ID        string // UUID
	Username  string
	CreatedAt time.Time
}

// Channel represents a conversation channel.
type Channel struct {
	ID          string // UUID
	Name        string
	ChannelType string // "public", "private" or "dm"
	CreatedAt   time.Time
}
