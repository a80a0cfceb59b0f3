package engagement

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAuth implements Authenticator for testing
type fakeAuth struct {
	mu     sync.Mutex
	viewer Viewer
	authed bool
}

func newFakeAuth(id int64, authed bool) *fakeAuth {
	return &fakeAuth{viewer: Viewer{ID: id, Username: "viewer"}, authed: authed}
}

func (a *fakeAuth) CurrentViewer() (Viewer, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.authed {
		return Viewer{}, false
	}
	return a.viewer, true
}

func (a *fakeAuth) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authed
}

func (a *fakeAuth) login(id int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.viewer = Viewer{ID: id, Username: "viewer"}
	a.authed = true
}

func (a *fakeAuth) logout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.authed = false
}

type submitCall struct {
	Ref      EntityRef
	Reaction Reaction
}

// fakeRemote implements Remote for testing. Unset funcs fall back to the
// snapshots map and to accepting every submission.
type fakeRemote struct {
	mu         sync.Mutex
	snapshots  map[EntityRef]Snapshot
	fetchFunc  func(ctx context.Context, ref EntityRef) (Snapshot, error)
	submitFunc func(ctx context.Context, ref EntityRef, reaction Reaction) error
	fetches    []EntityRef
	submits    []submitCall
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{snapshots: make(map[EntityRef]Snapshot)}
}

func (f *fakeRemote) set(ref EntityRef, snap Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[ref] = snap
}

func (f *fakeRemote) FetchEngagement(ctx context.Context, ref EntityRef) (Snapshot, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, ref)
	fn := f.fetchFunc
	snap := f.snapshots[ref]
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, ref)
	}
	return snap, nil
}

func (f *fakeRemote) SubmitReaction(ctx context.Context, ref EntityRef, reaction Reaction) error {
	f.mu.Lock()
	f.submits = append(f.submits, submitCall{Ref: ref, Reaction: reaction})
	fn := f.submitFunc
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, ref, reaction)
	}
	return nil
}

func (f *fakeRemote) submitCalls() []submitCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]submitCall(nil), f.submits...)
}

func (f *fakeRemote) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

// testRig bundles the collaborators most protocol tests need
type testRig struct {
	store      *Store
	gate       *Gate
	remote     *fakeRemote
	auth       *fakeAuth
	hydrator   *Hydrator
	reconciler *Reconciler
}

func newTestRig(authed bool) *testRig {
	logger := discardLogger()
	remote := newFakeRemote()
	auth := newFakeAuth(7, authed)
	store := NewStore(logger)
	gate := NewGate(auth, DefaultNotificationDuration, logger)
	hydrator := NewHydrator(remote, store, DefaultConfig(), logger)
	return &testRig{
		store:      store,
		gate:       gate,
		remote:     remote,
		auth:       auth,
		hydrator:   hydrator,
		reconciler: NewReconciler(store, gate, remote, hydrator, logger),
	}
}
