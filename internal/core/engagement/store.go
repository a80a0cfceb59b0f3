package engagement

import (
	"log/slog"
	"sync"
)

// Observer is notified after every write to the store, outside the store lock.
// present is false when the record was removed (Forget or Reset).
type Observer func(ref EntityRef, rec Record, present bool)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithObserver registers fn to be called after each write.
func WithObserver(fn Observer) StoreOption {
	return func(s *Store) {
		s.observer = fn
	}
}

// entry is the store's bookkeeping for one entity.
type entry struct {
	record   Record
	hydrated bool
	pending  int    // confirmations in flight
	seq      uint64 // clock value of the last local write
	stale    bool   // re-hydrate once pending drains
}

// stamp captures what a hydration fetch started from.
// A snapshot is only written if nothing local happened since.
type stamp struct {
	gen uint64
	seq uint64
}

// mutation is one optimistic toggle awaiting confirmation.
type mutation struct {
	id     string
	ref    EntityRef
	target Target
	gen    uint64
	seq    uint64
	before Record
	after  Record
	delta  Delta
}

// settlement is what happened to the store when a confirmation resolved.
type settlement int

const (
	settleConfirmed  settlement = iota // remote accepted
	settleRolledBack                   // remote failed, delta undone
	settleSuperseded                   // remote failed after a later local write; left for re-hydration
	settleDropped                      // record was forgotten or reset meanwhile
)

// Store is the in-memory engagement state for the current viewer, keyed by entity.
// It is the only owner of records; every method is atomic with respect to the others.
// The store never performs I/O.
type Store struct {
	mu       sync.Mutex
	entries  map[EntityRef]*entry
	removed  map[EntityRef]struct{}
	clock    uint64
	gen      uint64
	observer Observer
	logger   *slog.Logger
}

// NewStore creates an empty store.
func NewStore(logger *slog.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		entries: make(map[EntityRef]*entry),
		removed: make(map[EntityRef]struct{}),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current record, or false if the entity has not been
// hydrated or mutated yet.
func (s *Store) Get(ref EntityRef) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[ref]
	if !ok {
		return Record{}, false
	}
	return e.record, true
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Pending reports how many confirmations are in flight for ref.
func (s *Store) Pending(ref EntityRef) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[ref]; ok {
		return e.pending
	}
	return 0
}

// Put writes a hydrated record. While a mutation on ref is pending the
// optimistic value stays authoritative and the snapshot is discarded.
// Returns whether the record was written.
func (s *Store) Put(ref EntityRef, rec Record) bool {
	s.mu.Lock()
	ok := s.putLocked(ref, rec)
	s.mu.Unlock()

	if ok {
		s.notify(ref, rec, true)
	}
	return ok
}

// putAt writes a hydrated record only if no local write happened on ref
// since st was taken.
func (s *Store) putAt(ref EntityRef, rec Record, st stamp) bool {
	s.mu.Lock()
	if st.gen != s.gen || s.seqLocked(ref) != st.seq {
		s.mu.Unlock()
		s.logger.Debug("discarding hydration older than local state",
			"entity", ref.String())
		return false
	}
	ok := s.putLocked(ref, rec)
	s.mu.Unlock()

	if ok {
		s.notify(ref, rec, true)
	}
	return ok
}

func (s *Store) putLocked(ref EntityRef, rec Record) bool {
	if _, gone := s.removed[ref]; gone {
		return false
	}

	e, ok := s.entries[ref]
	if !ok {
		s.entries[ref] = &entry{record: rec, hydrated: true}
		s.logger.Debug("engagement hydrated",
			"entity", ref.String(),
			"reaction", rec.Reaction.String(),
			"likes", rec.Likes,
			"dislikes", rec.Dislikes)
		return true
	}

	if e.pending > 0 {
		s.logger.Warn("ignoring hydration while mutation pending",
			"entity", ref.String(),
			"pending", e.pending)
		return false
	}

	e.record = rec
	e.hydrated = true
	e.stale = false
	s.logger.Debug("engagement refreshed",
		"entity", ref.String(),
		"reaction", rec.Reaction.String(),
		"likes", rec.Likes,
		"dislikes", rec.Dislikes)
	return true
}

// Apply runs fn against the current record (the zero record if absent) and
// stores the result. If fn fails nothing is written.
func (s *Store) Apply(ref EntityRef, fn func(Record) (Record, error)) (Record, error) {
	s.mu.Lock()
	if _, gone := s.removed[ref]; gone {
		s.mu.Unlock()
		return Record{}, ErrEntityRemoved
	}

	e := s.ensureLocked(ref)
	next, err := fn(e.record)
	if err != nil {
		cur := e.record
		s.dropIfEmptyLocked(ref, e)
		s.mu.Unlock()
		return cur, err
	}
	e.record = next
	e.seq = s.tick()
	s.mu.Unlock()

	s.notify(ref, next, true)
	return next, nil
}

// begin applies the optimistic side of a toggle and registers it as pending.
// refresh is true when the transition was refused for desync and nothing is
// pending, so the caller should re-hydrate now.
func (s *Store) begin(ref EntityRef, target Target, id string) (m mutation, refresh bool, err error) {
	s.mu.Lock()
	if _, gone := s.removed[ref]; gone {
		s.mu.Unlock()
		return mutation{}, false, ErrEntityRemoved
	}

	e := s.ensureLocked(ref)
	before := e.record
	after, delta, err := Transition(before, target)
	if err != nil {
		if e.pending > 0 {
			e.stale = true
		} else {
			refresh = true
		}
		s.dropIfEmptyLocked(ref, e)
		s.mu.Unlock()
		return mutation{}, refresh, err
	}

	e.record = after
	e.pending++
	e.seq = s.tick()
	m = mutation{
		id:     id,
		ref:    ref,
		target: target,
		gen:    s.gen,
		seq:    e.seq,
		before: before,
		after:  after,
		delta:  delta,
	}
	s.mu.Unlock()

	s.notify(ref, after, true)
	return m, false, nil
}

// settle resolves a pending mutation. On failure only m's own delta is undone,
// and only while m is still the latest write; otherwise the entity is marked
// stale. refresh is true once the last pending confirmation for a stale entity
// has settled.
func (s *Store) settle(m mutation, confirmed bool) (out settlement, rec Record, refresh bool) {
	s.mu.Lock()
	e, ok := s.entries[m.ref]
	if !ok || m.gen != s.gen {
		s.mu.Unlock()
		return settleDropped, Record{}, false
	}

	e.pending--
	out = settleConfirmed
	changed := false

	if !confirmed {
		if e.seq == m.seq {
			reverted, err := e.record.shift(m.delta.Inverse(), m.before.Reaction)
			if err != nil {
				e.stale = true
				out = settleSuperseded
			} else {
				e.record = reverted
				e.seq = s.tick()
				out = settleRolledBack
				changed = true
			}
		} else {
			e.stale = true
			out = settleSuperseded
		}
	}

	if e.pending == 0 && e.stale {
		e.stale = false
		refresh = true
	}
	rec = e.record
	s.mu.Unlock()

	if changed {
		s.notify(m.ref, rec, true)
	}
	return out, rec, refresh
}

// stampOf records the state a hydration fetch for ref starts from.
func (s *Store) stampOf(ref EntityRef) stamp {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stamp{gen: s.gen, seq: s.seqLocked(ref)}
}

// Forget drops the record for an entity that left the view (e.g. was deleted).
// Later hydration for it is ignored and toggles fail with ErrEntityRemoved.
func (s *Store) Forget(ref EntityRef) {
	s.mu.Lock()
	_, had := s.entries[ref]
	delete(s.entries, ref)
	s.removed[ref] = struct{}{}
	s.mu.Unlock()

	if had {
		s.notify(ref, Record{}, false)
	}
}

// Reset discards every record. Used when the viewer changes: reactions are
// viewer-scoped, so nothing survives a logout. In-flight confirmations and
// hydrations started before the reset are dropped when they resolve.
func (s *Store) Reset() {
	s.mu.Lock()
	old := s.entries
	s.entries = make(map[EntityRef]*entry)
	s.removed = make(map[EntityRef]struct{})
	s.gen++
	s.mu.Unlock()

	s.logger.Debug("engagement store reset", "records", len(old))
	for ref := range old {
		s.notify(ref, Record{}, false)
	}
}

func (s *Store) ensureLocked(ref EntityRef) *entry {
	e, ok := s.entries[ref]
	if !ok {
		e = &entry{}
		s.entries[ref] = e
	}
	return e
}

// dropIfEmptyLocked removes an entry created only to evaluate a refused write.
func (s *Store) dropIfEmptyLocked(ref EntityRef, e *entry) {
	if !e.hydrated && e.seq == 0 && e.pending == 0 && !e.stale {
		delete(s.entries, ref)
	}
}

func (s *Store) seqLocked(ref EntityRef) uint64 {
	if e, ok := s.entries[ref]; ok {
		return e.seq
	}
	return 0
}

func (s *Store) tick() uint64 {
	s.clock++
	return s.clock
}

func (s *Store) notify(ref EntityRef, rec Record, present bool) {
	if s.observer != nil {
		s.observer(ref, rec, present)
	}
}
