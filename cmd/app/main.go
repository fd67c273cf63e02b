package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"feed-ranking-service/configs"
	"feed-ranking-service/internal/feed"
	"feed-ranking-service/internal/kafka"
	"feed-ranking-service/internal/posts"
	"feed-ranking-service/internal/ranking"
	"feed-ranking-service/internal/ratelimit"
	"feed-ranking-service/internal/shared/httpx"
	"feed-ranking-service/internal/shared/redisx"
	"feed-ranking-service/internal/social"
	"feed-ranking-service/internal/users"
	"feed-ranking-service/pkg/db"
)

func initOTEL(ctx context.Context) func(context.Context) error {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "otel-collector:4318"
	}
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		log.Fatalf("otel exporter: %v", err)
	}
	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("feed-ranking-service"),
		attribute.String("deployment.environment", os.Getenv("ENV")),
	))
	ratio := 1.0
	if s := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); s != "" {
		if f, e := strconv.ParseFloat(s, 64); e == nil && f >= 0 && f <= 1 {
			ratio = f
		}
	}
	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(ratio))),
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown
}

func main() {
	cfg := configs.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := initOTEL(ctx)
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(c)
	}()

	// Redis
	rdb := redisx.OpenFromEnv()
	defer func(rdb *redis.Client) { _ = rdb.Close() }(rdb)

	// Postgres
	gdb, err := db.Open(cfg.DSN(), cfg.DBReplicas)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	postsRepo, err := posts.NewRepository(gdb)
	if err != nil {
		log.Fatalf("posts repository: %v", err)
	}
	socialRepo, err := social.NewRepository(gdb)
	if err != nil {
		log.Fatalf("social repository: %v", err)
	}
	usersRepo, err := users.NewRepository(gdb)
	if err != nil {
		log.Fatalf("users repository: %v", err)
	}

	// Kafka writers
	postEvents := kafka.NewWriter(cfg.KafkaBootstrap, cfg.PostsTopic)
	defer postEvents.Close()
	followEvents := kafka.NewWriter(cfg.KafkaBootstrap, cfg.SocialTopic)
	defer followEvents.Close()

	// Services
	postsSvc := posts.NewService(postsRepo, postEvents)
	socialSvc := social.NewService(socialRepo, followEvents)
	feedSvc := feed.NewService(
		feed.NewRepository(rdb),
		postsRepo,
		socialSvc,
		usersRepo,
		feed.WithRanker(ranking.New(cfg.Ranking)),
		feed.WithCacheTTL(cfg.FeedCacheTTL),
		feed.WithDefaultFeedLimit(cfg.DefaultFeedLimit),
	)

	// Kafka consumers: any post or follow mutation marks cached feeds stale.
	go func() {
		if err := kafka.StartConsumer(ctx, cfg.KafkaBootstrap, cfg.PostsTopic, cfg.KafkaGroupID, feedSvc.HandlePostEvent); err != nil {
			log.Printf("posts consumer stopped: %v", err)
		}
	}()
	go func() {
		if err := kafka.StartConsumer(ctx, cfg.KafkaBootstrap, cfg.SocialTopic, cfg.KafkaGroupID, feedSvc.HandleFollowEvent); err != nil {
			log.Printf("social consumer stopped: %v", err)
		}
	}()

	// Rate limiter (Redis-backed) for forced rebuilds
	limiter := ratelimit.New(rdb)
	rebuildLimit := func(next http.Handler) http.Handler {
		return limiter.LimitHTTP(1, 60*time.Second, func(r *http.Request) (string, error) {
			return httpx.UserFromCtx(r)
		}, next)
	}

	feedH := feed.NewHandler(feedSvc)
	postsH := posts.NewHandler(postsSvc)
	socialH := social.NewHandler(socialSvc)
	usersH := users.NewHandler(usersRepo)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})

	protect := func(pattern string, handler http.Handler) {
		mux.Handle(pattern, httpx.AuthMiddleware(handler))
	}

	// Feed: personalized with a token, pass-through without one.
	mux.Handle("GET /feed", httpx.OptionalAuth(httpx.Wrap(feedH.GetHomeFeed)))
	protect("POST /feed/rebuild", rebuildLimit(httpx.Wrap(feedH.RebuildHomeFeed)))

	// Posts
	protect("POST /posts", httpx.Wrap(postsH.CreatePost))
	mux.Handle("GET /posts/{post_id}", httpx.Wrap(postsH.GetPost))
	mux.Handle("GET /users/{user_id}/posts", httpx.Wrap(postsH.ListByAuthor))
	protect("POST /posts/{post_id}/like", httpx.Wrap(postsH.ToggleLike))
	protect("POST /posts/{post_id}/comments", httpx.Wrap(postsH.AddComment))
	mux.Handle("GET /posts/{post_id}/comments", httpx.Wrap(postsH.ListComments))

	// Social graph
	protect("POST /users/{user_id}/follow", httpx.Wrap(socialH.Follow))
	protect("DELETE /users/{user_id}/follow", httpx.Wrap(socialH.Unfollow))
	mux.Handle("GET /users/{user_id}/following", httpx.Wrap(socialH.ListFollowing))
	mux.Handle("GET /users/{user_id}/followers", httpx.Wrap(socialH.ListFollowers))

	// Profiles
	protect("PUT /users/me", httpx.Wrap(usersH.UpsertProfile))
	mux.Handle("GET /users/{user_id}", httpx.Wrap(usersH.GetProfile))

	protect("GET /whoami", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, err := httpx.UserFromCtx(r)
		if err != nil {
			httpx.WriteJSON(w, map[string]any{"error": err.Error()}, http.StatusUnauthorized)
			return
		}
		httpx.WriteJSON(w, map[string]any{"user_id": uid}, http.StatusOK)
	}))

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           otelhttp.NewHandler(mux, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-exit
		log.Println("shutting down feed-ranking-service...")
		cancel()
		c, cancelTO := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelTO()
		_ = srv.Shutdown(c)
	}()

	log.Printf("feed-ranking-service listening on %s", cfg.AppPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}
}
