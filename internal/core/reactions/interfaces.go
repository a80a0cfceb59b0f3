package reactions

import (
	"context"

	"Agora/internal/core/engagement"
)

// Service defines the business logic interface for reactions
type Service interface {
	// GetSummary returns the entity's totals and viewerID's reaction.
	// viewerID 0 is an anonymous viewer whose reaction is always none.
	GetSummary(ctx context.Context, ref engagement.EntityRef, viewerID int64) (*Summary, error)

	// SetReaction stores the viewer's reaction, replacing any previous one.
	// Idempotent: setting the same reaction twice leaves the same state.
	// Returns the summary after the write.
	SetReaction(ctx context.Context, viewerID int64, req SetReactionRequest) (*Summary, error)
}

// Repository defines the data access interface for reactions
type Repository interface {
	// Set upserts the viewer's reaction. ReactionNone deletes it.
	Set(ctx context.Context, viewerID int64, ref engagement.EntityRef, reaction engagement.Reaction) error

	// Get returns the viewer's stored reaction, or ErrReactionNotFound.
	Get(ctx context.Context, viewerID int64, ref engagement.EntityRef) (*Reaction, error)

	// Counts aggregates every viewer's reaction on ref.
	Counts(ctx context.Context, ref engagement.EntityRef) (Counts, error)
}
