package reactions

import (
	"time"

	"Agora/internal/core/engagement"
)

// Reaction is one viewer's stored reaction to a post or comment.
// Only liked and disliked are stored; clearing a reaction deletes the row.
type Reaction struct {
	CreatedAt  time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time           `json:"updatedAt" db:"updated_at"`
	EntityKind engagement.Kind     `json:"entityKind" db:"entity_kind"`
	EntityID   int64               `json:"entityId" db:"entity_id"`
	ViewerID   int64               `json:"viewerId" db:"viewer_id"`
	Value      engagement.Reaction `json:"reaction" db:"reaction"`
}

// Ref returns the identity of the reacted entity.
func (r *Reaction) Ref() engagement.EntityRef {
	return engagement.EntityRef{Kind: r.EntityKind, ID: r.EntityID}
}

// Counts are the aggregate reactions on one entity across all viewers.
type Counts struct {
	Likes    int
	Dislikes int
}

// Summary is the engagement of one entity as seen by one viewer.
type Summary struct {
	TotalLikes     int                 `json:"totalLikes"`
	TotalDislikes  int                 `json:"totalDislikes"`
	ViewerReaction engagement.Reaction `json:"viewerReaction"`
}

// SetReactionRequest is the body of POST /engagement.
// Reaction must be present; "none" clears the viewer's reaction.
type SetReactionRequest struct {
	EntityKind engagement.Kind      `json:"entityKind"`
	EntityID   int64                `json:"entityId"`
	Reaction   *engagement.Reaction `json:"reaction"`
}

// Ref returns the identity of the entity being reacted to.
func (r SetReactionRequest) Ref() engagement.EntityRef {
	return engagement.EntityRef{Kind: r.EntityKind, ID: r.EntityID}
}
