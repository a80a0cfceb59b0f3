package engagement

import (
	"context"
	"log/slog"
	"sync"
)

// Engine is the engagement layer for one page or session: a store, the auth
// gate, the hydrator and the reconciler, shared by feed and single-post views
// and used the same way for posts and comments.
type Engine struct {
	store      *Store
	gate       *Gate
	hydrator   *Hydrator
	reconciler *Reconciler
	auth       Authenticator
	logger     *slog.Logger

	mu     sync.Mutex
	viewer int64 // 0 when anonymous
}

// NewEngine builds an engine talking to remote on behalf of auth's viewer.
func NewEngine(remote Remote, auth Authenticator, cfg Config, logger *slog.Logger, opts ...StoreOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	store := NewStore(logger, opts...)
	gate := NewGate(auth, cfg.NotificationDuration, logger)
	hydrator := NewHydrator(remote, store, cfg, logger)

	e := &Engine{
		store:      store,
		gate:       gate,
		hydrator:   hydrator,
		reconciler: NewReconciler(store, gate, remote, hydrator, logger),
		auth:       auth,
		logger:     logger,
	}
	e.viewer = e.currentViewerID()
	return e, nil
}

// Hydrate loads engagement for refs. See Hydrator.Hydrate.
func (e *Engine) Hydrate(ctx context.Context, refs []EntityRef) <-chan Hydrated {
	e.syncViewer()
	return e.hydrator.Hydrate(ctx, refs)
}

// Refresh re-hydrates a single entity.
func (e *Engine) Refresh(ctx context.Context, ref EntityRef) (Record, error) {
	e.syncViewer()
	return e.hydrator.Refresh(ctx, ref)
}

// Toggle runs the reconciliation protocol. See Reconciler.Toggle.
func (e *Engine) Toggle(ctx context.Context, ref EntityRef, target Target) (Record, error) {
	e.syncViewer()
	return e.reconciler.Toggle(ctx, ref, target)
}

// Like toggles a like on ref.
func (e *Engine) Like(ctx context.Context, ref EntityRef) (Record, error) {
	return e.Toggle(ctx, ref, TargetLike)
}

// Dislike toggles a dislike on ref.
func (e *Engine) Dislike(ctx context.Context, ref EntityRef) (Record, error) {
	return e.Toggle(ctx, ref, TargetDislike)
}

// Record returns the current record for ref, or false if absent.
func (e *Engine) Record(ref EntityRef) (Record, bool) {
	e.syncViewer()
	return e.store.Get(ref)
}

// Forget drops ref after its entity was deleted or left the view.
func (e *Engine) Forget(ref EntityRef) {
	e.store.Forget(ref)
}

// Reset discards all engagement state, e.g. on logout.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.viewer = e.currentViewerID()
	e.mu.Unlock()

	e.store.Reset()
}

// Notification returns the visible login notification, or "".
func (e *Engine) Notification() string {
	return e.gate.Notification()
}

// Store exposes the underlying store for rendering.
func (e *Engine) Store() *Store {
	return e.store
}

// Gate exposes the auth gate, e.g. to register a notification callback.
func (e *Engine) Gate() *Gate {
	return e.gate
}

// syncViewer resets the store when the viewer changed since the last call.
func (e *Engine) syncViewer() {
	id := e.currentViewerID()

	e.mu.Lock()
	changed := id != e.viewer
	prev := e.viewer
	e.viewer = id
	e.mu.Unlock()

	if changed {
		e.logger.Info("viewer changed, discarding engagement state",
			"previous_viewer", prev,
			"viewer", id)
		e.store.Reset()
	}
}

func (e *Engine) currentViewerID() int64 {
	if e.auth == nil {
		return 0
	}
	v, ok := e.auth.CurrentViewer()
	if !ok {
		return 0
	}
	return v.ID
}
