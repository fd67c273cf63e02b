package feed

import (
	"time"

	"feed-ranking-service/internal/ranking"
)

// FeedItem is the served feed entry: the post, its engagement totals, author
// display metadata, and the ranking outcome. Score and Relationship are
// omitted on the anonymous pass-through.
type FeedItem struct {
	PostID       string        `json:"post_id"`
	AuthorID     string        `json:"author_id"`
	AuthorName   string        `json:"author_name"`
	AuthorAvatar string        `json:"author_avatar,omitempty"`
	Caption      string        `json:"caption,omitempty"`
	MediaURL     string        `json:"media_url,omitempty"`
	HasMedia     bool          `json:"has_media"`
	LikeCount    int           `json:"like_count"`
	CommentCount int           `json:"comment_count"`
	CreatedAt    time.Time     `json:"created_at"`
	Score        float64       `json:"score,omitempty"`
	Relationship ranking.Label `json:"relationship,omitempty"`
}

// CachedFeed is a fully ranked feed stamped with the corpus version it was
// computed at. A stale stamp forces a full recompute.
type CachedFeed struct {
	Version  int64      `json:"version"`
	RankedAt time.Time  `json:"ranked_at"`
	Items    []FeedItem `json:"items"`
}
