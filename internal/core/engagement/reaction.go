package engagement

import "fmt"

// Reaction is the viewer's current reaction to an entity.
// A single tri-state value: an entity can never be both liked and disliked.
type Reaction uint8

const (
	ReactionNone Reaction = iota
	ReactionLiked
	ReactionDisliked
)

// String returns the wire form of the reaction ("none", "liked", "disliked").
func (r Reaction) String() string {
	switch r {
	case ReactionNone:
		return "none"
	case ReactionLiked:
		return "liked"
	case ReactionDisliked:
		return "disliked"
	default:
		return fmt.Sprintf("reaction(%d)", uint8(r))
	}
}

// ParseReaction parses the wire form of a reaction.
// "none" must be spelled out; an empty value is rejected.
func ParseReaction(s string) (Reaction, error) {
	switch s {
	case "none":
		return ReactionNone, nil
	case "liked":
		return ReactionLiked, nil
	case "disliked":
		return ReactionDisliked, nil
	default:
		return ReactionNone, fmt.Errorf("%w: %q", ErrInvalidReaction, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Reaction) MarshalText() ([]byte, error) {
	if r > ReactionDisliked {
		return nil, fmt.Errorf("%w: %d", ErrInvalidReaction, uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Reaction) UnmarshalText(text []byte) error {
	parsed, err := ParseReaction(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Target is what the viewer asked for when pressing a reaction button.
type Target uint8

const (
	TargetLike Target = iota + 1
	TargetDislike
)

// String returns "like" or "dislike".
func (t Target) String() string {
	switch t {
	case TargetLike:
		return "like"
	case TargetDislike:
		return "dislike"
	default:
		return fmt.Sprintf("target(%d)", uint8(t))
	}
}

func (t Target) valid() bool {
	return t == TargetLike || t == TargetDislike
}

// reaction is the state the target turns on.
func (t Target) reaction() Reaction {
	if t == TargetLike {
		return ReactionLiked
	}
	return ReactionDisliked
}

func (t Target) opposite() Target {
	if t == TargetLike {
		return TargetDislike
	}
	return TargetLike
}
