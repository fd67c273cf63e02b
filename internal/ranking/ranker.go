package ranking

import (
	"sort"
	"time"
)

// Ranker scores and orders feed candidates for one viewer at one instant.
// It is stateless apart from its config, performs no I/O, and never mutates
// its inputs, so a single instance is safe for concurrent use.
type Ranker struct {
	cfg Config
}

// New returns a Ranker using cfg, falling back to DefaultConfig when cfg is
// invalid (weights not summing to 1 would push scores out of [0,1]).
func New(cfg Config) *Ranker {
	if !cfg.Valid() {
		cfg = DefaultConfig()
	}
	return &Ranker{cfg: cfg}
}

// Rank maps candidates to a score-descending ordering for viewerID at now.
// Every input post appears exactly once in the output. An empty viewerID is
// the anonymous path: input order is kept and no scores are assigned. Ties
// keep relative input order, so a recompute after a single like toggle does
// not reshuffle unrelated posts.
func (r *Ranker) Rank(posts []Post, viewerID string, idx Index, now time.Time) []ScoredPost {
	out := make([]ScoredPost, len(posts))

	// Anonymous viewers get no personalization: pass through unscored.
	if viewerID == "" {
		for i, p := range posts {
			out[i] = ScoredPost{Post: p}
		}
		return out
	}

	for i, p := range posts {
		p = Normalize(p)
		label, rel := r.classify(p.AuthorID, viewerID, idx)
		score := r.cfg.WeightRecency*r.recency(p.CreatedAt, now) +
			r.cfg.WeightEngagement*r.engagement(len(p.Likes), p.CommentSignal) +
			r.cfg.WeightRelationship*rel +
			r.cfg.WeightContentType*r.contentType(p.HasVisualMedia)
		out[i] = ScoredPost{Post: p, Score: score, Label: label}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// recency decays linearly from 1 to 0 over the decay window. Older posts
// score 0 on this axis but stay in the feed. A zero or future timestamp
// clamps to "just created".
func (r *Ranker) recency(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 1
	}
	hours := now.Sub(createdAt).Hours()
	if hours < 0 {
		hours = 0
	}
	s := 1 - hours/r.cfg.DecayHours
	if s < 0 {
		return 0
	}
	return s
}

// engagement blends like and comment volume, normalized against a soft cap.
// Anything past the cap clamps to 1 rather than overflowing.
func (r *Ranker) engagement(likes, comments int) float64 {
	s := (r.cfg.LikeWeight*float64(likes) + r.cfg.CommentWeight*float64(comments)) / r.cfg.EngagementCap
	if s > 1 {
		return 1
	}
	return s
}

func (r *Ranker) contentType(visual bool) float64 {
	if visual {
		return r.cfg.CompVisualMedia
	}
	return r.cfg.CompTextOnly
}

// classify resolves the viewer→author relationship. The cases are mutually
// exclusive and checked in priority order; first match wins. A nil or empty
// index classifies every non-own author as suggested.
func (r *Ranker) classify(authorID, viewerID string, idx Index) (Label, float64) {
	if authorID == viewerID {
		return LabelOwn, r.cfg.CompOwn
	}
	_, following := idx.Following[authorID]
	_, follower := idx.Followers[authorID]
	switch {
	case following && follower:
		return LabelMutual, r.cfg.CompMutual
	case following:
		return LabelFollowing, r.cfg.CompFollowing
	case follower:
		return LabelFollower, r.cfg.CompFollower
	default:
		return LabelSuggested, r.cfg.CompSuggested
	}
}
