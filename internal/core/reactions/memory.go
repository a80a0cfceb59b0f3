package reactions

import (
	"context"
	"sync"
	"time"

	"Agora/internal/core/engagement"
)

type memoryKey struct {
	viewerID int64
	ref      engagement.EntityRef
}

// memoryRepository keeps reactions in process memory.
// Used when no database is configured; state is lost on restart.
type memoryRepository struct {
	mu        sync.RWMutex
	reactions map[memoryKey]*Reaction
}

// NewMemoryRepository creates an empty in-memory reaction repository
func NewMemoryRepository() Repository {
	return &memoryRepository{reactions: make(map[memoryKey]*Reaction)}
}

func (r *memoryRepository) Set(ctx context.Context, viewerID int64, ref engagement.EntityRef, reaction engagement.Reaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memoryKey{viewerID: viewerID, ref: ref}
	if reaction == engagement.ReactionNone {
		delete(r.reactions, key)
		return nil
	}

	now := time.Now()
	if existing, ok := r.reactions[key]; ok {
		existing.Value = reaction
		existing.UpdatedAt = now
		return nil
	}
	r.reactions[key] = &Reaction{
		CreatedAt:  now,
		UpdatedAt:  now,
		EntityKind: ref.Kind,
		EntityID:   ref.ID,
		ViewerID:   viewerID,
		Value:      reaction,
	}
	return nil
}

func (r *memoryRepository) Get(ctx context.Context, viewerID int64, ref engagement.EntityRef) (*Reaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	existing, ok := r.reactions[memoryKey{viewerID: viewerID, ref: ref}]
	if !ok {
		return nil, ErrReactionNotFound
	}
	cp := *existing
	return &cp, nil
}

func (r *memoryRepository) Counts(ctx context.Context, ref engagement.EntityRef) (Counts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var counts Counts
	for key, reaction := range r.reactions {
		if key.ref != ref {
			continue
		}
		switch reaction.Value {
		case engagement.ReactionLiked:
			counts.Likes++
		case engagement.ReactionDisliked:
			counts.Dislikes++
		}
	}
	return counts, nil
}
