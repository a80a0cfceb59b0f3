package engagement

import "fmt"

// Record is the engagement state of one entity as seen by the current viewer.
// Likes and Dislikes are aggregates across all viewers; Reaction belongs to the viewer only.
type Record struct {
	Reaction Reaction
	Likes    int
	Dislikes int
}

// Delta is the change a transition makes to the aggregate counts.
// Each field is -1, 0 or +1.
type Delta struct {
	Likes    int
	Dislikes int
}

// Inverse returns the delta that undoes d.
func (d Delta) Inverse() Delta {
	return Delta{Likes: -d.Likes, Dislikes: -d.Dislikes}
}

// counter returns the bucket the target owns.
func (d *Delta) counter(t Target) *int {
	if t == TargetLike {
		return &d.Likes
	}
	return &d.Dislikes
}

// shift applies d to the counts and moves the record to reaction.
// Counts never go below zero; a shift that would do so means the record
// has diverged from the server and is refused with ErrDesync.
func (r Record) shift(d Delta, reaction Reaction) (Record, error) {
	next := Record{
		Reaction: reaction,
		Likes:    r.Likes + d.Likes,
		Dislikes: r.Dislikes + d.Dislikes,
	}
	if next.Likes < 0 || next.Dislikes < 0 {
		return r, fmt.Errorf("%w: %d/%d%+d/%+d", ErrDesync, r.Likes, r.Dislikes, d.Likes, d.Dislikes)
	}
	return next, nil
}

// Transition computes the outcome of the viewer pressing target on an entity in state cur.
//
// Toggling the active target clears it; toggling from None turns it on; toggling the
// opposite of the active reaction swaps. The like and dislike rows are the same rule with
// "mine" and "other" counters exchanged.
func Transition(cur Record, target Target) (Record, Delta, error) {
	if !target.valid() {
		return cur, Delta{}, fmt.Errorf("%w: %s", ErrInvalidTarget, target)
	}

	mine := target.reaction()
	var d Delta
	next := mine

	switch cur.Reaction {
	case mine:
		*d.counter(target) = -1
		next = ReactionNone
	case ReactionNone:
		*d.counter(target) = 1
	default:
		*d.counter(target) = 1
		*d.counter(target.opposite()) = -1
	}

	out, err := cur.shift(d, next)
	if err != nil {
		return cur, Delta{}, err
	}
	return out, d, nil
}

// Snapshot is the server's view of an entity for the current viewer.
type Snapshot struct {
	TotalLikes     int      `json:"totalLikes"`
	TotalDislikes  int      `json:"totalDislikes"`
	ViewerReaction Reaction `json:"viewerReaction"`
}

// Record converts a snapshot to a record, rejecting snapshots that could
// not have come from a consistent server.
func (s Snapshot) Record() (Record, error) {
	if s.TotalLikes < 0 || s.TotalDislikes < 0 {
		return Record{}, fmt.Errorf("%w: negative counts %d/%d", ErrInvalidSnapshot, s.TotalLikes, s.TotalDislikes)
	}
	switch s.ViewerReaction {
	case ReactionNone:
	case ReactionLiked:
		if s.TotalLikes == 0 {
			return Record{}, fmt.Errorf("%w: viewer liked but totalLikes is 0", ErrInvalidSnapshot)
		}
	case ReactionDisliked:
		if s.TotalDislikes == 0 {
			return Record{}, fmt.Errorf("%w: viewer disliked but totalDislikes is 0", ErrInvalidSnapshot)
		}
	default:
		return Record{}, fmt.Errorf("%w: %s", ErrInvalidSnapshot, s.ViewerReaction)
	}
	return Record{
		Reaction: s.ViewerReaction,
		Likes:    s.TotalLikes,
		Dislikes: s.TotalDislikes,
	}, nil
}
