package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"feed-ranking-service/internal/kafka"
	"feed-ranking-service/internal/posts"
	"feed-ranking-service/internal/ranking"
	"feed-ranking-service/internal/users"
)

// PostSource yields the candidate corpus, recency-descending.
type PostSource interface {
	ListCandidates(limit int) ([]posts.Candidate, error)
}

// RelationshipSource yields a viewer's follow sets as a ranking index.
type RelationshipSource interface {
	BuildIndex(uid string) (ranking.Index, error)
}

// UserSource yields display metadata for feed enrichment.
type UserSource interface {
	GetBatch(ids []string) (map[string]users.User, error)
}

type Service interface {
	// GetFeed returns the ranked feed page for viewerID, or the recency
	// pass-through when viewerID is empty (anonymous).
	GetFeed(ctx context.Context, viewerID string, limit, offset int) ([]FeedItem, error)
	// Rebuild drops the viewer's cached feed and recomputes it now.
	Rebuild(ctx context.Context, viewerID string) error
	// HandlePostEvent / HandleFollowEvent consume Kafka mutation events and
	// mark every cached feed stale by bumping the corpus version.
	HandlePostEvent(ctx context.Context, value []byte) error
	HandleFollowEvent(ctx context.Context, value []byte) error
}

type service struct {
	cache     Repository
	postSrc   PostSource
	relSrc    RelationshipSource
	userSrc   UserSource
	ranker    *ranking.Ranker
	cacheTTL  time.Duration
	feedLimit int
	now       func() time.Time
}

type Option func(*service)

func WithRanker(r *ranking.Ranker) Option   { return func(s *service) { s.ranker = r } }
func WithCacheTTL(ttl time.Duration) Option { return func(s *service) { s.cacheTTL = ttl } }
func WithDefaultFeedLimit(n int) Option     { return func(s *service) { s.feedLimit = n } }
func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }

func NewService(cache Repository, postSrc PostSource, relSrc RelationshipSource, userSrc UserSource, opts ...Option) Service {
	s := &service{
		cache:     cache,
		postSrc:   postSrc,
		relSrc:    relSrc,
		userSrc:   userSrc,
		ranker:    ranking.New(ranking.DefaultConfig()),
		cacheTTL:  5 * time.Minute,
		feedLimit: 100,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *service) GetFeed(ctx context.Context, viewerID string, limit, offset int) ([]FeedItem, error) {
	if limit <= 0 {
		limit = s.feedLimit
	}
	if offset < 0 {
		offset = 0
	}

	// Anonymous viewers are never cached per-viewer; the corpus listing is
	// already the pass-through order.
	if viewerID == "" {
		items, err := s.compute(ctx, "")
		if err != nil {
			return nil, err
		}
		return page(items, limit, offset), nil
	}

	ver, err := s.cache.Version(ctx)
	if err != nil {
		return nil, err
	}
	if cached, err := s.cache.GetCached(ctx, viewerID); err == nil && cached != nil && cached.Version == ver {
		cacheHits.Inc()
		return page(cached.Items, limit, offset), nil
	} else if err != nil {
		// Cache trouble degrades to a recompute, never a blank feed.
		log.Printf("feed: cache read for %s: %v", viewerID, err)
	}
	cacheMisses.Inc()

	items, err := s.compute(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	cf := CachedFeed{Version: ver, RankedAt: s.now(), Items: items}
	if err := s.cache.StoreCached(ctx, viewerID, cf, s.cacheTTL); err != nil {
		log.Printf("feed: cache store for %s: %v", viewerID, err)
	}
	return page(items, limit, offset), nil
}

func (s *service) Rebuild(ctx context.Context, viewerID string) error {
	if viewerID == "" {
		return errors.New("viewer id cannot be empty")
	}
	if err := s.cache.Invalidate(ctx, viewerID); err != nil {
		return err
	}
	ver, err := s.cache.Version(ctx)
	if err != nil {
		return err
	}
	items, err := s.compute(ctx, viewerID)
	if err != nil {
		return err
	}
	return s.cache.StoreCached(ctx, viewerID, CachedFeed{Version: ver, RankedAt: s.now(), Items: items}, s.cacheTTL)
}

// compute runs one full ranking pass: load the corpus and the viewer's
// relationship index, join, rank, enrich. Both loads finish before Rank is
// invoked; the ranker never sees a half-populated index.
func (s *service) compute(ctx context.Context, viewerID string) ([]FeedItem, error) {
	candidates, err := s.postSrc.ListCandidates(s.feedLimit * 10)
	if err != nil {
		return nil, err
	}

	idx := ranking.NewIndex(nil, nil)
	if viewerID != "" {
		idx, err = s.relSrc.BuildIndex(viewerID)
		if err != nil {
			return nil, err
		}
	}

	rankingPosts := make([]ranking.Post, len(candidates))
	byID := make(map[string]posts.Candidate, len(candidates))
	for i, c := range candidates {
		rankingPosts[i] = ranking.Post{
			ID:             c.ID,
			AuthorID:       c.AuthorID,
			CreatedAt:      c.CreatedAt,
			Likes:          c.LikeIDs,
			CommentSignal:  c.CommentCount,
			HasVisualMedia: c.HasMedia,
		}
		byID[c.ID] = c
	}

	ranked := s.ranker.Rank(rankingPosts, viewerID, idx, s.now())
	rankPasses.Inc()

	names := s.lookupAuthors(ranked)

	items := make([]FeedItem, len(ranked))
	for i, sp := range ranked {
		c := byID[sp.ID]
		item := FeedItem{
			PostID:       c.ID,
			AuthorID:     c.AuthorID,
			AuthorName:   c.AuthorID, // fallback when no profile row exists
			Caption:      c.Caption,
			MediaURL:     c.MediaURL,
			HasMedia:     c.HasMedia,
			LikeCount:    len(c.LikeIDs),
			CommentCount: c.CommentCount,
			CreatedAt:    c.CreatedAt,
			Score:        sp.Score,
			Relationship: sp.Label,
		}
		if u, ok := names[c.AuthorID]; ok {
			item.AuthorName = u.Name
			item.AuthorAvatar = u.AvatarURL
		}
		items[i] = item
	}
	return items, nil
}

// lookupAuthors fetches display metadata for every distinct author. A lookup
// failure only costs the nicety: items fall back to raw author ids.
func (s *service) lookupAuthors(ranked []ranking.ScoredPost) map[string]users.User {
	seen := make(map[string]struct{}, len(ranked))
	ids := make([]string, 0, len(ranked))
	for _, sp := range ranked {
		if _, ok := seen[sp.AuthorID]; ok {
			continue
		}
		seen[sp.AuthorID] = struct{}{}
		ids = append(ids, sp.AuthorID)
	}
	names, err := s.userSrc.GetBatch(ids)
	if err != nil {
		log.Printf("feed: author lookup: %v", err)
		return map[string]users.User{}
	}
	return names
}

func (s *service) HandlePostEvent(ctx context.Context, value []byte) error {
	var ev kafka.PostEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return err
	}
	eventsConsumed.WithLabelValues(ev.Type).Inc()
	return s.cache.BumpVersion(ctx)
}

func (s *service) HandleFollowEvent(ctx context.Context, value []byte) error {
	var ev kafka.FollowEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return err
	}
	eventsConsumed.WithLabelValues(ev.Type).Inc()
	return s.cache.BumpVersion(ctx)
}

func page(items []FeedItem, limit, offset int) []FeedItem {
	if offset >= len(items) {
		return []FeedItem{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
