package kafka

import "time"

// PostEvent is published on every post mutation (create, like toggle, new
// comment). Consumers only need to know the corpus changed; the payload
// carries enough to log and to skip self-triggered work if needed.
type PostEvent struct {
	Type      string    `json:"type"` // "created" | "liked" | "unliked" | "commented"
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FollowEvent is published on follow-graph mutations.
type FollowEvent struct {
	Type      string    `json:"type"` // "followed" | "unfollowed"
	UserID    string    `json:"user_id"`
	TargetID  string    `json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}
