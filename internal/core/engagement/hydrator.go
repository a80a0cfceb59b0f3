package engagement

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Hydrated is one completed hydration.
type Hydrated struct {
	Ref    EntityRef
	Record Record
	// Applied is false when the store kept its own state instead of the
	// snapshot: a mutation was pending or applied since the fetch began,
	// the entity was forgotten, or the viewer changed.
	Applied bool
	Err     error
}

// Hydrator loads server-side engagement snapshots into the store.
// Each entity is fetched independently; completions arrive in any order.
type Hydrator struct {
	remote  Remote
	store   *Store
	limit   int
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewHydrator creates a hydrator writing into store.
func NewHydrator(remote Remote, store *Store, cfg Config, logger *slog.Logger) *Hydrator {
	if logger == nil {
		logger = slog.Default()
	}
	limit := cfg.HydrationConcurrency
	if limit <= 0 {
		limit = DefaultConfig().HydrationConcurrency
	}
	var limiter *rate.Limiter
	if cfg.HydrationRate > 0 {
		burst := cfg.HydrationBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.HydrationRate), burst)
	}
	return &Hydrator{
		remote:  remote,
		store:   store,
		limit:   limit,
		limiter: limiter,
		logger:  logger,
	}
}

// Hydrate fetches every ref and writes the results to the store. The returned
// channel yields one Hydrated per ref, in completion order, and is closed when
// all fetches are done. A failed fetch affects only its own ref.
//
// The channel is buffered for every ref, so callers may stop reading early.
func (h *Hydrator) Hydrate(ctx context.Context, refs []EntityRef) <-chan Hydrated {
	out := make(chan Hydrated, len(refs))

	go func() {
		defer close(out)

		var g errgroup.Group
		g.SetLimit(h.limit)
		for _, ref := range refs {
			g.Go(func() error {
				out <- h.hydrateOne(ctx, ref)
				return nil
			})
		}
		_ = g.Wait()

		h.logger.Debug("hydration batch complete", "entities", len(refs))
	}()

	return out
}

// Refresh re-hydrates a single entity and returns the record the store holds
// afterwards.
func (h *Hydrator) Refresh(ctx context.Context, ref EntityRef) (Record, error) {
	res := h.hydrateOne(ctx, ref)
	if res.Err != nil {
		return Record{}, res.Err
	}
	return res.Record, nil
}

func (h *Hydrator) hydrateOne(ctx context.Context, ref EntityRef) Hydrated {
	res := Hydrated{Ref: ref}

	if err := ref.Validate(); err != nil {
		res.Err = err
		return res
	}

	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			res.Err = fmt.Errorf("hydrate %s: %w", ref, err)
			return res
		}
	}

	st := h.store.stampOf(ref)

	snap, err := h.remote.FetchEngagement(ctx, ref)
	if err != nil {
		h.logger.Error("failed to fetch engagement",
			"error", err,
			"entity", ref.String())
		res.Err = fmt.Errorf("hydrate %s: %w", ref, err)
		return res
	}

	rec, err := snap.Record()
	if err != nil {
		h.logger.Error("server returned invalid engagement snapshot",
			"error", err,
			"entity", ref.String())
		res.Err = fmt.Errorf("hydrate %s: %w", ref, err)
		return res
	}

	res.Applied = h.store.putAt(ref, rec, st)
	if current, ok := h.store.Get(ref); ok {
		res.Record = current
	} else {
		res.Record = rec
	}
	return res
}
