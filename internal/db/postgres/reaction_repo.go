package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Agora/internal/core/engagement"
	"Agora/internal/core/reactions"
)

type postgresReactionRepo struct {
	db *sql.DB
}

// NewReactionRepository creates a new PostgreSQL reaction repository
func NewReactionRepository(db *sql.DB) reactions.Repository {
	return &postgresReactionRepo{db: db}
}

// Set upserts the viewer's reaction; ReactionNone deletes the row.
// Idempotent: repeating the same call leaves the same row.
func (r *postgresReactionRepo) Set(ctx context.Context, viewerID int64, ref engagement.EntityRef, reaction engagement.Reaction) error {
	if reaction == engagement.ReactionNone {
		query := `
			DELETE FROM reactions
			WHERE viewer_id = $1 AND entity_kind = $2 AND entity_id = $3
		`
		if _, err := r.db.ExecContext(ctx, query, viewerID, ref.Kind.String(), ref.ID); err != nil {
			return fmt.Errorf("failed to clear reaction: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO reactions (viewer_id, entity_kind, entity_id, reaction, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (viewer_id, entity_kind, entity_id)
		DO UPDATE SET reaction = EXCLUDED.reaction, updated_at = NOW()
		WHERE reactions.reaction IS DISTINCT FROM EXCLUDED.reaction
	`
	_, err := r.db.ExecContext(ctx, query, viewerID, ref.Kind.String(), ref.ID, reaction.String())
	if err != nil {
		return fmt.Errorf("failed to upsert reaction: %w", err)
	}
	return nil
}

// Get retrieves the viewer's reaction on ref
func (r *postgresReactionRepo) Get(ctx context.Context, viewerID int64, ref engagement.EntityRef) (*reactions.Reaction, error) {
	query := `
		SELECT viewer_id, entity_kind, entity_id, reaction, created_at, updated_at
		FROM reactions
		WHERE viewer_id = $1 AND entity_kind = $2 AND entity_id = $3
	`

	var (
		reaction    reactions.Reaction
		kind, value string
	)
	err := r.db.QueryRowContext(ctx, query, viewerID, ref.Kind.String(), ref.ID).Scan(
		&reaction.ViewerID, &kind, &reaction.EntityID, &value,
		&reaction.CreatedAt, &reaction.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, reactions.ErrReactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reaction: %w", err)
	}

	if reaction.EntityKind, err = engagement.ParseKind(kind); err != nil {
		return nil, fmt.Errorf("corrupt reaction row: %w", err)
	}
	if reaction.Value, err = engagement.ParseReaction(value); err != nil {
		return nil, fmt.Errorf("corrupt reaction row: %w", err)
	}
	return &reaction, nil
}

// Counts aggregates likes and dislikes on ref
func (r *postgresReactionRepo) Counts(ctx context.Context, ref engagement.EntityRef) (reactions.Counts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE reaction = 'liked'),
			COUNT(*) FILTER (WHERE reaction = 'disliked')
		FROM reactions
		WHERE entity_kind = $1 AND entity_id = $2
	`

	var counts reactions.Counts
	if err := r.db.QueryRowContext(ctx, query, ref.Kind.String(), ref.ID).Scan(&counts.Likes, &counts.Dislikes); err != nil {
		return reactions.Counts{}, fmt.Errorf("failed to count reactions: %w", err)
	}
	return counts, nil
}
