package social

import (
	"context"
	"errors"
	"log"
	"time"

	"feed-ranking-service/internal/kafka"
	"feed-ranking-service/internal/ranking"
)

type Service interface {
	Follow(ctx context.Context, uid, target string) error
	Unfollow(ctx context.Context, uid, target string) error
	ListFollowing(uid string, limit, offset int) ([]string, error)
	ListFollowers(uid string, limit, offset int) ([]string, error)
	BuildIndex(uid string) (ranking.Index, error)
}

type service struct {
	repo   Repository
	events kafka.Writer
}

func NewService(repo Repository, events kafka.Writer) Service {
	return &service{repo: repo, events: events}
}

func (s *service) Follow(ctx context.Context, uid, target string) error {
	if uid == target {
		return errors.New("cannot follow self")
	}
	if target == "" {
		return errors.New("target cannot be empty")
	}
	if err := s.repo.Follow(uid, target); err != nil {
		return err
	}
	s.emit(ctx, kafka.FollowEvent{Type: "followed", UserID: uid, TargetID: target, CreatedAt: time.Now()})
	return nil
}

func (s *service) Unfollow(ctx context.Context, uid, target string) error {
	if err := s.repo.Unfollow(uid, target); err != nil {
		return err
	}
	s.emit(ctx, kafka.FollowEvent{Type: "unfollowed", UserID: uid, TargetID: target, CreatedAt: time.Now()})
	return nil
}

func (s *service) ListFollowing(uid string, limit, offset int) ([]string, error) {
	return s.repo.ListFollowing(uid, limit, offset)
}

func (s *service) ListFollowers(uid string, limit, offset int) ([]string, error) {
	return s.repo.ListFollowers(uid, limit, offset)
}

func (s *service) BuildIndex(uid string) (ranking.Index, error) {
	return s.repo.BuildIndex(uid)
}

func (s *service) emit(ctx context.Context, ev kafka.FollowEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.WriteJSON(ctx, ev); err != nil {
		log.Printf("social: emit %s event %s->%s: %v", ev.Type, ev.UserID, ev.TargetID, err)
	}
}
