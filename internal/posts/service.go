package posts

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"feed-ranking-service/internal/kafka"
)

type Service interface {
	Create(ctx context.Context, authorID, caption, mediaURL string) (*Post, error)
	GetByID(id string) (*Post, error)
	ListByAuthor(authorID string, limit, offset int) ([]Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, err error)
	AddComment(ctx context.Context, postID, userID, text string) (*Comment, error)
	ListComments(postID string, limit, offset int) ([]Comment, error)
}

type service struct {
	repo   Repository
	events kafka.Writer
}

func NewService(repo Repository, events kafka.Writer) Service {
	return &service{repo: repo, events: events}
}

func (s *service) Create(ctx context.Context, authorID, caption, mediaURL string) (*Post, error) {
	if authorID == "" {
		return nil, errors.New("author_id cannot be empty")
	}
	if caption == "" && mediaURL == "" {
		return nil, errors.New("post needs a caption or media")
	}
	p := &Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Caption:   caption,
		MediaURL:  mediaURL,
		HasMedia:  mediaURL != "",
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}
	s.emit(ctx, kafka.PostEvent{Type: "created", PostID: p.ID, AuthorID: authorID, ActorID: authorID, CreatedAt: p.CreatedAt})
	return p, nil
}

func (s *service) GetByID(id string) (*Post, error) {
	return s.repo.GetByID(id)
}

func (s *service) ListByAuthor(authorID string, limit, offset int) ([]Post, error) {
	return s.repo.ListByAuthor(authorID, limit, offset)
}

func (s *service) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	p, err := s.repo.GetByID(postID)
	if err != nil {
		return false, err
	}
	liked, err := s.repo.ToggleLike(postID, userID)
	if err != nil {
		return false, err
	}
	typ := "liked"
	if !liked {
		typ = "unliked"
	}
	s.emit(ctx, kafka.PostEvent{Type: typ, PostID: postID, AuthorID: p.AuthorID, ActorID: userID, CreatedAt: time.Now()})
	return liked, nil
}

func (s *service) AddComment(ctx context.Context, postID, userID, text string) (*Comment, error) {
	if text == "" {
		return nil, errors.New("comment text cannot be empty")
	}
	p, err := s.repo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	c := &Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.repo.AddComment(c); err != nil {
		return nil, err
	}
	s.emit(ctx, kafka.PostEvent{Type: "commented", PostID: postID, AuthorID: p.AuthorID, ActorID: userID, CreatedAt: c.CreatedAt})
	return c, nil
}

func (s *service) ListComments(postID string, limit, offset int) ([]Comment, error) {
	return s.repo.ListComments(postID, limit, offset)
}

// emit publishes a post event. Publish failures are logged and swallowed:
// the write already committed, and feeds self-heal on cache expiry.
func (s *service) emit(ctx context.Context, ev kafka.PostEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.WriteJSON(ctx, ev); err != nil {
		log.Printf("posts: emit %s event for %s: %v", ev.Type, ev.PostID, err)
	}
}
