// Command seed fills the configured stores with fake users, follows, content,
// engagement and comments. It runs the same services as the API so counters,
// notifications and fan-out behave as they would for real traffic.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/anonto42/newsfeed/backend/internal/fanout"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/repositories"
	"github.com/anonto42/newsfeed/backend/internal/router"
	"github.com/anonto42/newsfeed/backend/internal/services"
	"github.com/anonto42/newsfeed/backend/pkg/config"
	"github.com/anonto42/newsfeed/backend/pkg/logger"
	"github.com/anonto42/newsfeed/backend/pkg/telemetry"
	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
)

const seedPassword = "password123"

func main() {
	users := flag.Int("users", 20, "number of users to create")
	perUser := flag.Int("items", 3, "content items per user")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	cfg := config.Load()
	zl, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	gofakeit.Seed(*seed)
	ctx := context.Background()

	db, err := config.InitDB(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	mdb := db.Mongo.Database(cfg.MongoDatabase)
	if err := router.Migrate(ctx, db.Postgres, mdb); err != nil {
		zl.Fatal("failed to migrate", zap.Error(err))
	}

	metrics := telemetry.NewNopMetrics()
	pool := fanout.NewWorkerPool(fanout.PoolConfig{Workers: 4, QueueSize: 256, Retry: fanout.RetryPolicy{MaxAttempts: 3}}, zl, metrics)

	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(db.Postgres)
	contentRepo := repositories.NewMongoContentRepository(mdb)

	dispatcher := services.NewDispatcher(repositories.NewPostgresNotificationRepository(db.Postgres), userRepo, pool, zl, metrics)
	pool.Start(dispatcher.HandleTask)

	s := seeder{
		auth:       services.NewAuthService(userRepo, nil, cfg.JWTSecret, cfg.JWTTTL, zl),
		follows:    services.NewFollowService(followRepo, userRepo, dispatcher, zl),
		content:    services.NewContentService(contentRepo, commentRepo, userRepo, followRepo, dispatcher, zl),
		engagement: services.NewEngagementService(contentRepo, dispatcher, zl, metrics),
		comments:   services.NewCommentService(commentRepo, repositories.NewPostgresCommentLikeRepository(db.Postgres), contentRepo, userRepo, dispatcher, zl),
		log:        zl,
	}
	s.run(ctx, *users, *perUser)

	cctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := pool.Close(cctx); err != nil {
		zl.Warn("fanout drain incomplete", zap.Error(err))
	}
	zl.Info("seed complete", zap.Int("users", *users), zap.String("password", seedPassword))
}

type seeder struct {
	auth       *services.AuthService
	follows    *services.FollowService
	content    *services.ContentService
	engagement *services.EngagementService
	comments   *services.CommentService
	log        *zap.Logger
}

type seededItem struct {
	kind models.ContentKind
	id   string
}

func (s *seeder) run(ctx context.Context, userCount, perUser int) {
	ids := make([]uint, 0, userCount)
	for i := 0; i < userCount; i++ {
		res, err := s.auth.Signup(ctx, models.SignupRequest{
			Username: gofakeit.Username() + gofakeit.DigitN(4),
			Email:    gofakeit.Email(),
			Password: seedPassword,
		})
		if err != nil {
			s.log.Warn("skip user", zap.Error(err))
			continue
		}
		ids = append(ids, res.User.ID)
	}
	if len(ids) < 2 {
		s.log.Fatal("not enough users created to seed relationships")
	}

	// each user follows a handful of others
	for _, id := range ids {
		for j := 0; j < gofakeit.Number(1, min(5, len(ids)-1)); j++ {
			target := ids[gofakeit.Number(0, len(ids)-1)]
			if target == id {
				continue
			}
			if _, err := s.follows.Toggle(ctx, id, target); err != nil {
				s.log.Warn("follow failed", zap.Error(err))
			}
		}
	}

	var items []seededItem
	for _, id := range ids {
		for j := 0; j < perUser; j++ {
			kind := models.ContentKinds[gofakeit.Number(0, len(models.ContentKinds)-1)]
			view, err := s.content.Create(ctx, id, kind, fakeContent(kind))
			if err != nil {
				s.log.Warn("create content failed", zap.String("kind", string(kind)), zap.Error(err))
				continue
			}
			items = append(items, seededItem{kind: kind, id: view.ID.Hex()})
		}
	}

	for _, it := range items {
		for _, actor := range sample(ids, gofakeit.Number(0, len(ids)/2)) {
			s.toggle(ctx, actor, it, models.ActionLike)
			if gofakeit.Bool() {
				s.toggle(ctx, actor, it, models.ActionSave)
			}
			if it.kind.SupportsShares() && gofakeit.Number(0, 3) == 0 {
				s.toggle(ctx, actor, it, models.ActionShare)
			}
		}
		for _, actor := range sample(ids, gofakeit.Number(0, 3)) {
			c, err := s.comments.Append(ctx, actor, it.kind, it.id, gofakeit.Sentence(gofakeit.Number(4, 14)), nil)
			if err != nil {
				s.log.Warn("comment failed", zap.Error(err))
				continue
			}
			if gofakeit.Bool() {
				replier := ids[gofakeit.Number(0, len(ids)-1)]
				if _, err := s.comments.Append(ctx, replier, it.kind, it.id, gofakeit.Sentence(6), &c.ID); err != nil {
					s.log.Warn("reply failed", zap.Error(err))
				}
			}
		}
	}
	s.log.Info("seeded content", zap.Int("items", len(items)))
}

func (s *seeder) toggle(ctx context.Context, actor uint, it seededItem, action models.EngagementAction) {
	if _, err := s.engagement.Toggle(ctx, actor, it.kind, it.id, action); err != nil {
		s.log.Warn("engagement failed", zap.String("action", string(action)), zap.Error(err))
	}
}

func fakeContent(kind models.ContentKind) models.CreateContentRequest {
	req := models.CreateContentRequest{
		Title: gofakeit.Sentence(gofakeit.Number(3, 8)),
		Body:  gofakeit.Paragraph(1, gofakeit.Number(2, 5), 12, " "),
		Tags:  []string{gofakeit.Word(), gofakeit.Word()},
	}
	switch kind {
	case models.KindNews:
		req.Category = gofakeit.RandomString([]string{"world", "tech", "sports", "science"})
		published := gofakeit.Number(0, 4) != 0
		req.Published = &published
	case models.KindVideo:
		req.MediaURL = gofakeit.URL()
	case models.KindCommunityPost:
		req.Community = gofakeit.RandomString([]string{"gophers", "photography", "cooking"})
	default:
		req.ImageURLs = []string{gofakeit.URL()}
		req.Location = gofakeit.City()
	}
	return req
}

// sample picks up to n distinct ids
func sample(ids []uint, n int) []uint {
	shuffled := append([]uint(nil), ids...)
	gofakeit.ShuffleAnySlice(shuffled)
	return shuffled[:min(n, len(shuffled))]
}
