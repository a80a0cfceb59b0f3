package reactions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"Agora/internal/core/engagement"
)

const (
	// DefaultCountCacheSize bounds the number of entities with cached counts
	DefaultCountCacheSize = 10000

	// DefaultCountCacheTTL bounds how long a count read racing a write can stay cached
	DefaultCountCacheTTL = 30 * time.Second
)

// reactionService implements the Service interface
type reactionService struct {
	repo   Repository
	counts *expirable.LRU[engagement.EntityRef, Counts]
	logger *slog.Logger

	// writes counts every stored reaction; a count load that saw a write
	// land while it ran is not cached
	mu     sync.Mutex
	writes uint64
}

// NewService creates a new reaction service instance.
// A non-positive cacheSize uses DefaultCountCacheSize.
func NewService(repo Repository, cacheSize int, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCountCacheSize
	}
	return &reactionService{
		repo:   repo,
		counts: expirable.NewLRU[engagement.EntityRef, Counts](cacheSize, nil, DefaultCountCacheTTL),
		logger: logger,
	}
}

// GetSummary returns the totals for ref and viewerID's own reaction.
func (s *reactionService) GetSummary(ctx context.Context, ref engagement.EntityRef, viewerID int64) (*Summary, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}

	counts, err := s.countsFor(ctx, ref)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		TotalLikes:     counts.Likes,
		TotalDislikes:  counts.Dislikes,
		ViewerReaction: engagement.ReactionNone,
	}
	if viewerID <= 0 {
		return summary, nil
	}

	existing, err := s.repo.Get(ctx, viewerID, ref)
	if err != nil {
		if errors.Is(err, ErrReactionNotFound) {
			return summary, nil
		}
		return nil, fmt.Errorf("failed to load viewer reaction: %w", err)
	}
	summary.ViewerReaction = existing.Value

	// counts read before the viewer's own write landed
	if !covers(counts, existing.Value) {
		s.counts.Remove(ref)
		if counts, err = s.countsFor(ctx, ref); err != nil {
			return nil, err
		}
		summary.TotalLikes, summary.TotalDislikes = counts.Likes, counts.Dislikes
	}

	return summary, nil
}

// SetReaction validates and stores the viewer's reaction
func (s *reactionService) SetReaction(ctx context.Context, viewerID int64, req SetReactionRequest) (*Summary, error) {
	if viewerID <= 0 {
		return nil, ErrUnauthenticated
	}

	ref := req.Ref()
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	if req.Reaction == nil {
		return nil, NewValidationError("reaction", "is required")
	}
	reaction := *req.Reaction
	switch reaction {
	case engagement.ReactionNone, engagement.ReactionLiked, engagement.ReactionDisliked:
	default:
		return nil, NewValidationError("reaction", "must be none, liked or disliked")
	}

	if err := s.repo.Set(ctx, viewerID, ref, reaction); err != nil {
		return nil, fmt.Errorf("failed to store reaction: %w", err)
	}
	s.mu.Lock()
	s.writes++
	s.counts.Remove(ref)
	s.mu.Unlock()

	s.logger.Info("reaction stored",
		"viewer", viewerID,
		"entity", ref.String(),
		"reaction", reaction.String())

	return s.GetSummary(ctx, ref, viewerID)
}

// countsFor returns cached counts, loading them on a miss
func (s *reactionService) countsFor(ctx context.Context, ref engagement.EntityRef) (Counts, error) {
	if counts, ok := s.counts.Get(ref); ok {
		s.logger.Debug("reaction counts cache hit", "entity", ref.String())
		return counts, nil
	}

	s.mu.Lock()
	started := s.writes
	s.mu.Unlock()

	counts, err := s.repo.Counts(ctx, ref)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to count reactions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writes != started {
		s.logger.Debug("not caching counts loaded across a write", "entity", ref.String())
		return counts, nil
	}
	s.counts.Add(ref, counts)
	return counts, nil
}

// covers reports whether counts can include the viewer's own reaction
func covers(counts Counts, reaction engagement.Reaction) bool {
	switch reaction {
	case engagement.ReactionLiked:
		return counts.Likes > 0
	case engagement.ReactionDisliked:
		return counts.Dislikes > 0
	default:
		return true
	}
}

func validateRef(ref engagement.EntityRef) error {
	switch ref.Kind {
	case engagement.KindPost, engagement.KindComment:
	default:
		return NewValidationError("entityKind", "must be post or comment")
	}
	if ref.ID <= 0 {
		return NewValidationError("entityId", "must be a positive integer")
	}
	return nil
}
