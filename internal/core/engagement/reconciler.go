package engagement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// Reconciler runs the toggle protocol: gate, optimistic apply, remote
// confirmation, and rollback of the toggle's own delta on failure.
type Reconciler struct {
	store    *Store
	gate     *Gate
	remote   Remote
	hydrator *Hydrator
	logger   *slog.Logger
}

// NewReconciler wires the protocol. hydrator may be nil, in which case
// desynchronized entities are not re-hydrated automatically.
func NewReconciler(store *Store, gate *Gate, remote Remote, hydrator *Hydrator, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		store:    store,
		gate:     gate,
		remote:   remote,
		hydrator: hydrator,
		logger:   logger,
	}
}

// Toggle applies the viewer pressing target on ref.
//
// The new record is visible in the store before the remote call is made. If the
// remote call fails, Toggle returns a *ConfirmationError and the store has
// already been rolled back. Unauthenticated viewers get ErrUnauthenticated with
// nothing changed and nothing sent. The returned record is the store's state
// when Toggle returns.
func (r *Reconciler) Toggle(ctx context.Context, ref EntityRef, target Target) (Record, error) {
	if err := ref.Validate(); err != nil {
		return Record{}, err
	}
	if !target.valid() {
		return Record{}, ErrInvalidTarget
	}

	if !r.gate.Guard(target.String() + " a " + ref.Kind.String()) {
		rec, _ := r.store.Get(ref)
		return rec, ErrUnauthenticated
	}

	m, refresh, err := r.store.begin(ref, target, uuid.NewString())
	if err != nil {
		if errors.Is(err, ErrDesync) {
			r.logger.Warn("refusing toggle on desynchronized record",
				"error", err,
				"entity", ref.String(),
				"target", target.String(),
				"rehydrate", refresh)
			if refresh {
				r.refresh(ctx, ref)
			}
		}
		rec, _ := r.store.Get(ref)
		return rec, err
	}

	r.logger.Debug("optimistic reaction applied",
		"mutation", m.id,
		"entity", ref.String(),
		"from", m.before.Reaction.String(),
		"to", m.after.Reaction.String())

	submitErr := r.remote.SubmitReaction(ctx, ref, m.after.Reaction)

	outcome, rec, refresh := r.store.settle(m, submitErr == nil)
	if refresh {
		rec = r.refresh(ctx, ref)
	}

	if submitErr != nil {
		switch outcome {
		case settleRolledBack:
			r.logger.Warn("reaction not confirmed, rolled back",
				"error", submitErr,
				"mutation", m.id,
				"entity", ref.String(),
				"restored", m.before.Reaction.String())
		case settleSuperseded:
			r.logger.Warn("reaction not confirmed after a newer toggle, re-hydrating",
				"error", submitErr,
				"mutation", m.id,
				"entity", ref.String())
		default:
			r.logger.Error("reaction not confirmed",
				"error", submitErr,
				"mutation", m.id,
				"entity", ref.String())
		}
		return rec, &ConfirmationError{Ref: ref, Target: target, Err: submitErr}
	}

	r.logger.Info("reaction confirmed",
		"mutation", m.id,
		"entity", ref.String(),
		"reaction", m.after.Reaction.String())

	return rec, nil
}

// refresh re-hydrates ref after the store flagged it, returning whatever the
// store holds afterwards. It outlives the caller's cancellation.
func (r *Reconciler) refresh(ctx context.Context, ref EntityRef) Record {
	if r.hydrator != nil {
		if _, err := r.hydrator.Refresh(context.WithoutCancel(ctx), ref); err != nil {
			r.logger.Warn("failed to re-hydrate entity",
				"error", err,
				"entity", ref.String())
		}
	}
	rec, _ := r.store.Get(ref)
	return rec
}
