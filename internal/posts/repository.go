package posts

import (
	"errors"

	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

type Repository interface {
	Create(post *Post) error
	GetByID(id string) (*Post, error)
	ListByAuthor(authorID string, limit, offset int) ([]Post, error)
	ListCandidates(limit int) ([]Candidate, error)

	ToggleLike(postID, userID string) (liked bool, err error)
	AddComment(c *Comment) error
	ListComments(postID string, limit, offset int) ([]Comment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates the repository and auto-migrates the post models.
func NewRepository(db *gorm.DB) (Repository, error) {
	if err := db.AutoMigrate(&Post{}, &Like{}, &Comment{}); err != nil {
		return nil, err
	}
	return &repository{db: db}, nil
}

func (r *repository) Create(post *Post) error {
	return r.db.Create(post).Error
}

func (r *repository) GetByID(id string) (*Post, error) {
	var post Post
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *repository) ListByAuthor(authorID string, limit, offset int) ([]Post, error) {
	var out []Post
	err := r.db.Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// ListCandidates returns the newest posts with their like sets and comment
// counts, recency-descending. That order is a convenience default only; the
// ranker treats it as nothing more than the tie-break order.
func (r *repository) ListCandidates(limit int) ([]Candidate, error) {
	var all []Post
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&all).Error; err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	ids := make([]string, len(all))
	for i := range all {
		ids[i] = all[i].ID
	}

	var likes []Like
	if err := r.db.Where("post_id IN ?", ids).Find(&likes).Error; err != nil {
		return nil, err
	}
	likesByPost := make(map[string][]string, len(all))
	for _, l := range likes {
		likesByPost[l.PostID] = append(likesByPost[l.PostID], l.UserID)
	}

	type countRow struct {
		PostID string
		N      int
	}
	var counts []countRow
	if err := r.db.Model(&Comment{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", ids).
		Group("post_id").
		Find(&counts).Error; err != nil {
		return nil, err
	}
	commentsByPost := make(map[string]int, len(counts))
	for _, c := range counts {
		commentsByPost[c.PostID] = c.N
	}

	out := make([]Candidate, len(all))
	for i, p := range all {
		out[i] = Candidate{
			Post:         p,
			LikeIDs:      likesByPost[p.ID],
			CommentCount: commentsByPost[p.ID],
		}
	}
	return out, nil
}

// ToggleLike likes the post for userID, or removes the like when it already
// exists. Mirrors set add/remove semantics: liking twice is an unlike.
func (r *repository) ToggleLike(postID, userID string) (bool, error) {
	res := r.db.Delete(&Like{}, "post_id = ? AND user_id = ?", postID, userID)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	if err := r.db.Create(&Like{PostID: postID, UserID: userID}).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *repository) AddComment(c *Comment) error {
	return r.db.Create(c).Error
}

func (r *repository) ListComments(postID string, limit, offset int) ([]Comment, error) {
	var out []Comment
	err := r.db.Where("post_id = ?", postID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}
