package engagement

import "context"

// Viewer is the authenticated user the engagement state belongs to.
type Viewer struct {
	ID       int64
	Username string
}

// Authenticator answers who the current viewer is.
// Credential storage and session bootstrap live behind it.
type Authenticator interface {
	// CurrentViewer returns the viewer, or false when nobody is logged in.
	CurrentViewer() (Viewer, bool)

	// IsAuthenticated reports whether the viewer has a valid session.
	IsAuthenticated() bool
}

// Remote is the reaction service that holds the source of truth.
type Remote interface {
	// FetchEngagement returns aggregate counts and the viewer's reaction for ref.
	FetchEngagement(ctx context.Context, ref EntityRef) (Snapshot, error)

	// SubmitReaction records the viewer's reaction on ref.
	// ReactionNone is sent explicitly and clears any reaction. Idempotent.
	SubmitReaction(ctx context.Context, ref EntityRef, reaction Reaction) error
}
