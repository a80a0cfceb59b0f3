package engagement

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the entities that can be reacted to.
type Kind uint8

const (
	KindPost Kind = iota + 1
	KindComment
)

// String returns the wire form of the kind ("post" or "comment").
func (k Kind) String() string {
	switch k {
	case KindPost:
		return "post"
	case KindComment:
		return "comment"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind parses "post" or "comment".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "post":
		return KindPost, nil
	case "comment":
		return KindComment, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k != KindPost && k != KindComment {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// EntityRef identifies a post or comment for engagement purposes.
// All engagement state is keyed by it; posts and comments share one shape.
type EntityRef struct {
	Kind Kind
	ID   int64
}

// PostRef returns the identity of a post.
func PostRef(id int64) EntityRef {
	return EntityRef{Kind: KindPost, ID: id}
}

// CommentRef returns the identity of a comment.
func CommentRef(id int64) EntityRef {
	return EntityRef{Kind: KindComment, ID: id}
}

// String formats the ref as "kind:id", e.g. "post:42".
func (e EntityRef) String() string {
	return e.Kind.String() + ":" + strconv.FormatInt(e.ID, 10)
}

// Validate reports whether the ref names a known kind and a positive id.
func (e EntityRef) Validate() error {
	if e.Kind != KindPost && e.Kind != KindComment {
		return fmt.Errorf("%w: %d", ErrInvalidKind, uint8(e.Kind))
	}
	if e.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidEntity, e.ID)
	}
	return nil
}

// ParseEntityRef parses the "kind:id" form produced by String.
func ParseEntityRef(s string) (EntityRef, error) {
	kindStr, idStr, ok := strings.Cut(s, ":")
	if !ok {
		return EntityRef{}, fmt.Errorf("%w: %q (expected kind:id)", ErrInvalidEntity, s)
	}
	kind, err := ParseKind(kindStr)
	if err != nil {
		return EntityRef{}, err
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return EntityRef{}, fmt.Errorf("%w: %q: %v", ErrInvalidEntity, s, err)
	}
	ref := EntityRef{Kind: kind, ID: id}
	if err := ref.Validate(); err != nil {
		return EntityRef{}, err
	}
	return ref, nil
}
