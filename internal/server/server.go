package server

import (
	"backend-motormates/internal/auth"
	"backend-motormates/internal/community"
	"backend-motormates/internal/config"
	"backend-motormates/internal/route"
	"backend-motormates/internal/storage"
	"backend-motormates/internal/stream"
	"backend-motormates/internal/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     *pgxpool.Pool
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     db,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	fileStore := storage.NewService(s.DB)
	routeSvc := route.NewService(s.DB, fileStore, s.Cfg.ShareBaseURL)
	remote := sync.NewRedisStore(s.Redis)
	syncer := sync.NewSyncer(routeSvc, remote, s.Stream, s.Cfg.SyncBatchSize)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB, s.Redis))
	route.RegisterRoutes(s.App.Group("/routes"), routeSvc, jwtMiddleware)
	sync.RegisterRoutes(s.App.Group("/sync"), syncer, jwtMiddleware)
	community.RegisterRoutes(s.App.Group("/community"), community.NewService(remote))
	storage.RegisterRoutes(s.App.Group("/storage"), fileStore, jwtMiddleware)
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
