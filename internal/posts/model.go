package posts

import "time"

type Post struct {
	ID        string `gorm:"primaryKey;size:64"`
	AuthorID  string `gorm:"size:64;index"`
	Caption   string
	MediaURL  string
	HasMedia  bool
	CreatedAt time.Time
}

type Like struct {
	PostID    string `gorm:"primaryKey;size:64"`
	UserID    string `gorm:"primaryKey;size:64"`
	CreatedAt time.Time
}

type Comment struct {
	ID        string `gorm:"primaryKey;size:64"`
	PostID    string `gorm:"size:64;index"`
	UserID    string `gorm:"size:64"`
	Text      string
	CreatedAt time.Time
}

// Candidate is a post hydrated with its engagement signals, the shape the
// ranker consumes. LikeIDs keeps who liked (membership set); CommentCount is
// a plain count, deliberately not a commenter list.
type Candidate struct {
	Post
	LikeIDs      []string
	CommentCount int
}
