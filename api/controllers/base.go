package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"RestaurantAdviser/api/cache"
	"RestaurantAdviser/api/config"
	"RestaurantAdviser/api/logging"
	"RestaurantAdviser/api/mailer"
	"RestaurantAdviser/api/metrics"
	"RestaurantAdviser/api/middlewares"
	"RestaurantAdviser/api/models"
	"RestaurantAdviser/api/places"
	"RestaurantAdviser/api/sentiment"
	"RestaurantAdviser/api/storage"
	"RestaurantAdviser/api/tournament"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CandidateSource builds a tournament pool.
type CandidateSource interface {
	Fetch(ctx context.Context, req places.PoolRequest) ([]tournament.Candidate, error)
}

// PlaceSource answers nearby and detail lookups.
type PlaceSource interface {
	NearbySearch(ctx context.Context, req places.SearchRequest) ([]places.Restaurant, error)
	Details(ctx context.Context, placeID string) (places.Restaurant, error)
}

// Analyzer tags a comment body with aspect sentiments.
type Analyzer interface {
	Analyze(ctx context.Context, text string) ([]sentiment.Aspect, error)
}

type PasswordResetMailer interface {
	SendPasswordReset(ctx context.Context, to, username, token string) error
}

// OutcomeSink is told about every run that reaches a winner.
type OutcomeSink interface {
	Record(ctx context.Context, run *models.TournamentRun, winner tournament.Candidate) error
}

type Server struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Places   PlaceSource
	Pools    CandidateSource
	Analyzer Analyzer
	Mailer   PasswordResetMailer
	Avatars  storage.AvatarStore
	Outcomes OutcomeSink

	// AnalyzeTimeout bounds one background aspect analysis.
	AnalyzeTimeout time.Duration
	// NearbyTTL is how long nearby searches stay in the shared cache.
	NearbyTTL time.Duration
}

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ResetPassword{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Favorite{},
		&models.TournamentRun{},
	)
}

// ===============================
// SERVER INITIALIZATION
// ===============================
func (server *Server) Initialize(cfg *config.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("cannot connect to postgres: %w", err)
	}
	server.DB = db

	if err := Migrate(server.DB); err != nil {
		return fmt.Errorf("error migrating database: %w", err)
	}

	// Redis is optional; every cached path falls back to the source.
	if err := cache.InitFromEnv(); err != nil {
		logging.L().Warnw("could not connect to redis", "error", err)
	}

	server.Places = places.NewClient(cfg.PlacesBaseURL, cfg.PlacesAPIKey)
	server.Pools = places.NewPoolSource(cachedPlaces{server: server}, 0)

	if cfg.SentimentURL != "" {
		server.Analyzer = sentiment.NewClient(cfg.SentimentURL, nil)
	}
	if cfg.SendGridAPIKey != "" {
		server.Mailer = mailer.New(mailer.NewSendGrid(cfg.SendGridAPIKey, cfg.MailFrom), cfg.FrontendURL)
	}
	if cfg.S3Bucket != "" {
		avatars, err := storage.NewS3Avatars(context.Background(), cfg.S3Bucket, cfg.AWSRegion)
		if err != nil {
			logging.L().Warnw("avatar uploads disabled", "error", err)
		} else {
			server.Avatars = avatars
		}
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server.InitializeRouter()
	return nil
}

// InitializeRouter builds the gin engine with the global middleware chain
// and every route.
func (server *Server) InitializeRouter() {
	if server.Outcomes == nil {
		server.Outcomes = runOutcomeSink{}
	}
	if server.AnalyzeTimeout == 0 {
		server.AnalyzeTimeout = 90 * time.Second
	}
	if server.NearbyTTL == 0 {
		server.NearbyTTL = 10 * time.Minute
	}

	server.Router = gin.New()
	server.Router.Use(gin.Recovery())
	server.Router.Use(metrics.Middleware())
	server.Router.Use(middlewares.CORSMiddleware())
	server.Router.Use(middlewares.RateLimitMiddleware())
	server.initializeRoutes()
}

func (server *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
