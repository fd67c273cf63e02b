package ranking

import "time"

// Label classifies the viewer's relationship to a post's author. It is
// derived from the same lookup that produces the relationship component, so
// the tag shown in a client always matches the score the post received.
type Label string

const (
	LabelOwn       Label = "own"
	LabelMutual    Label = "mutual"
	LabelFollowing Label = "following"
	LabelFollower  Label = "follower"
	LabelSuggested Label = "suggested"
)

// Post is a ranking candidate. Likes carries liker ids with membership
// semantics; CommentSignal is a count, not a participant list.
type Post struct {
	ID             string
	AuthorID       string
	CreatedAt      time.Time
	Likes          []string
	CommentSignal  int
	HasVisualMedia bool
}

// Index holds the viewer's follow sets. Both sets containing an id means a
// mutual relationship; neither means a stranger.
type Index struct {
	Following map[string]struct{}
	Followers map[string]struct{}
}

// NewIndex builds an Index from id slices.
func NewIndex(following, followers []string) Index {
	idx := Index{
		Following: make(map[string]struct{}, len(following)),
		Followers: make(map[string]struct{}, len(followers)),
	}
	for _, id := range following {
		idx.Following[id] = struct{}{}
	}
	for _, id := range followers {
		idx.Followers[id] = struct{}{}
	}
	return idx
}

// ScoredPost is the ranked output record. On the anonymous pass-through the
// Score is 0 and the Label empty for every entry.
type ScoredPost struct {
	Post
	Score float64
	Label Label
}
