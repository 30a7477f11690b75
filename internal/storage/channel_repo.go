package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// ChannelRepo provides methods for channel operations.
type ChannelRepo struct {
	db *sql.DB
}

// NewChannelRepo creates a new ChannelRepo.
func NewChannelRepo(db *sql.DB) *ChannelRepo {
	return &ChannelRepo{db: db}
}

// Create inserts a new channel.
func (r *ChannelRepo) Create(ctx context.Context, channel Channel) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO channels (id, name, channel_type) VALUES (?, ?, ?)",
		channel.ID, channel.Name, channel.ChannelType,
	)
	if err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}
	return nil
}

// GetByID returns the channel with the given ID.
func (r *ChannelRepo) GetByID(ctx context.Context, id string) (Channel, error) {
	var channel Channel
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, channel_type FROM channels WHERE id = ?",
		id,
	).Scan(&channel.ID, &channel.Name, &channel.ChannelType)
	if err == sql.ErrNoRows {
		return Channel{}, ErrNotFound
	}
	if err != nil {
		return Channel{}, err
	}
	return channel, nil
}

// AddMember adds a user to a channel. Adding an existing member is a no-op.
func (r *ChannelRepo) AddMember(ctx context.Context, channelID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO channel_members (channel_id, user_id) VALUES (?, ?)",
		channelID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add channel member: %w", err)
	}
	return nil
}

// ListMemberIDs returns the user IDs of all members of a channel.
func (r *ChannelRepo) ListMemberIDs(ctx context.Context, channelID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id FROM channel_members WHERE channel_id = ? ORDER BY user_id",
		channelID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
