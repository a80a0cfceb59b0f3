package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_Table(t *testing.T) {
	base := func(r Reaction) Record {
		return Record{Reaction: r, Likes: 5, Dislikes: 5}
	}

	tests := []struct {
		name      string
		current   Reaction
		target    Target
		wantState Reaction
		wantDelta Delta
	}{
		{"none + like", ReactionNone, TargetLike, ReactionLiked, Delta{Likes: 1}},
		{"none + dislike", ReactionNone, TargetDislike, ReactionDisliked, Delta{Dislikes: 1}},
		{"liked + like", ReactionLiked, TargetLike, ReactionNone, Delta{Likes: -1}},
		{"liked + dislike", ReactionLiked, TargetDislike, ReactionDisliked, Delta{Likes: -1, Dislikes: 1}},
		{"disliked + like", ReactionDisliked, TargetLike, ReactionLiked, Delta{Likes: 1, Dislikes: -1}},
		{"disliked + dislike", ReactionDisliked, TargetDislike, ReactionNone, Delta{Dislikes: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, delta, err := Transition(base(tt.current), tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, got.Reaction)
			assert.Equal(t, tt.wantDelta, delta)
			assert.Equal(t, 5+tt.wantDelta.Likes, got.Likes)
			assert.Equal(t, 5+tt.wantDelta.Dislikes, got.Dislikes)
		})
	}
}

func TestTransition_Desync(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		target Target
	}{
		{"liked with zero likes", Record{Reaction: ReactionLiked}, TargetLike},
		{"disliked with zero dislikes toggled off", Record{Reaction: ReactionDisliked}, TargetDislike},
		{"disliked with zero dislikes swapped", Record{Reaction: ReactionDisliked, Likes: 3}, TargetLike},
		{"liked with zero likes swapped", Record{Reaction: ReactionLiked, Dislikes: 3}, TargetDislike},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, delta, err := Transition(tt.record, tt.target)
			require.ErrorIs(t, err, ErrDesync)
			assert.Equal(t, tt.record, got, "refused transition must leave the record untouched")
			assert.Equal(t, Delta{}, delta)
		})
	}
}

func TestTransition_InvalidTarget(t *testing.T) {
	_, _, err := Transition(Record{}, Target(0))
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

// Every toggle sequence up to length 6 keeps the reaction a single valid state
// and never moves either count by more than one per step.
func TestTransition_SequenceProperties(t *testing.T) {
	start := Record{Reaction: ReactionNone, Likes: 3, Dislikes: 2}
	targets := []Target{TargetLike, TargetDislike}

	var walk func(rec Record, depth int)
	walk = func(rec Record, depth int) {
		if depth == 0 {
			return
		}
		for _, target := range targets {
			next, delta, err := Transition(rec, target)
			require.NoError(t, err)

			assert.Contains(t, []Reaction{ReactionNone, ReactionLiked, ReactionDisliked}, next.Reaction)
			assert.LessOrEqual(t, abs(delta.Likes), 1)
			assert.LessOrEqual(t, abs(delta.Dislikes), 1)

			sumChange := (next.Likes + next.Dislikes) - (rec.Likes + rec.Dislikes)
			assert.Contains(t, []int{-1, 0, 1}, sumChange)

			// Counts always equal the start plus the viewer's own contribution
			wantLikes, wantDislikes := start.Likes, start.Dislikes
			switch next.Reaction {
			case ReactionLiked:
				wantLikes++
			case ReactionDisliked:
				wantDislikes++
			}
			assert.Equal(t, wantLikes, next.Likes)
			assert.Equal(t, wantDislikes, next.Dislikes)

			walk(next, depth-1)
		}
	}
	walk(start, 6)
}

func TestTransition_RepeatedToggleRestoresRecord(t *testing.T) {
	start := Record{Reaction: ReactionNone, Likes: 4, Dislikes: 1}

	for _, target := range []Target{TargetLike, TargetDislike} {
		once, _, err := Transition(start, target)
		require.NoError(t, err)
		twice, _, err := Transition(once, target)
		require.NoError(t, err)
		assert.Equal(t, start, twice, "toggling %s twice should return to the start", target)
	}
}

func TestTransition_LikeThenDislike(t *testing.T) {
	start := Record{Reaction: ReactionNone, Likes: 4, Dislikes: 1}

	liked, _, err := Transition(start, TargetLike)
	require.NoError(t, err)
	disliked, _, err := Transition(liked, TargetDislike)
	require.NoError(t, err)

	assert.Equal(t, Record{Reaction: ReactionDisliked, Likes: 4, Dislikes: 2}, disliked)
}

func TestSnapshot_Record(t *testing.T) {
	tests := []struct {
		name    string
		snap    Snapshot
		want    Record
		wantErr error
	}{
		{
			name: "plain counts",
			snap: Snapshot{TotalLikes: 10, TotalDislikes: 2},
			want: Record{Likes: 10, Dislikes: 2},
		},
		{
			name: "viewer liked",
			snap: Snapshot{TotalLikes: 1, ViewerReaction: ReactionLiked},
			want: Record{Reaction: ReactionLiked, Likes: 1},
		},
		{
			name:    "negative likes",
			snap:    Snapshot{TotalLikes: -1},
			wantErr: ErrInvalidSnapshot,
		},
		{
			name:    "liked without likes",
			snap:    Snapshot{ViewerReaction: ReactionLiked},
			wantErr: ErrInvalidSnapshot,
		},
		{
			name:    "disliked without dislikes",
			snap:    Snapshot{TotalLikes: 3, ViewerReaction: ReactionDisliked},
			wantErr: ErrInvalidSnapshot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.snap.Record()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
