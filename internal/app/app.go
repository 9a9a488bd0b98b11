// Package app wires storage, services and the HTTP stack together.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/patobeur/inouttracker/internal/audit"
	"github.com/patobeur/inouttracker/internal/config"
	"github.com/patobeur/inouttracker/internal/database"
	"github.com/patobeur/inouttracker/internal/handlers"
	"github.com/patobeur/inouttracker/internal/jobs"
	"github.com/patobeur/inouttracker/internal/middleware"
	"github.com/patobeur/inouttracker/internal/repositories"
	"github.com/patobeur/inouttracker/internal/routes"
	"github.com/patobeur/inouttracker/internal/security"
	"github.com/patobeur/inouttracker/internal/services"
	"github.com/patobeur/inouttracker/internal/session"
)

type App struct {
	Handler    http.Handler
	Scheduler  *jobs.Scheduler
	FloodGuard *middleware.FloodGuard

	DB    *sql.DB
	Redis *redis.Client
	Mongo *mongo.Client
}

// New connects to every backing store and assembles the HTTP handler.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	// === 1. Storage ===
	db, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	a.DB = db
	if err := database.InitPostgresTables(ctx, db); err != nil {
		a.Close()
		return nil, fmt.Errorf("init tables: %w", err)
	}

	rdb, err := database.ConnectRedis(cfg.RedisURI)
	switch {
	case err == nil:
		a.Redis = rdb
	case cfg.SessionBackend == "redis":
		a.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	default:
		log.WithError(err).Warn("Redis unavailable, dashboard cache disabled")
	}

	recorder := audit.Recorder(audit.LogRecorder{})
	if cfg.MongoURI != "" {
		client, mdb, err := database.ConnectMongo(cfg.MongoURI)
		if err != nil {
			log.WithError(err).Warn("MongoDB unavailable, audit trail goes to the log only")
		} else {
			a.Mongo = client
			mr := audit.NewMongoRecorder(mdb)
			if err := mr.EnsureIndexes(ctx); err != nil {
				log.WithError(err).Warn("failed to ensure audit indexes")
			}
			recorder = mr
		}
	}

	// === 2. Repositories ===
	users := repositories.NewUserRepository(db)
	articles := repositories.NewArticleRepository(db)
	customers := repositories.NewCustomerRepository(db)
	stats := repositories.NewStatsRepository(db)

	// === 3. Sessions ===
	var store session.Store
	if cfg.SessionBackend == "redis" {
		store = session.NewRedisStore(a.Redis)
	} else {
		store = session.NewMemoryStore()
	}
	sessions := session.NewManager(store, session.Options{
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		TrustProxy: cfg.TrustProxy,
	})

	// === 4. Services ===
	mailer := &services.LogMailer{FromAddress: cfg.MailFromAddress, FromName: cfg.MailFromName}
	auth, err := services.NewAuthService(users, sessions, mailer, recorder, cfg.AppURL)
	if err != nil {
		a.Close()
		return nil, err
	}
	admin := services.NewAdminService(users, stats, services.NewCacheService(a.Redis), recorder)

	if cfg.SeedAdmin() {
		if err := admin.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPseudo, cfg.AdminPassword); err != nil {
			log.WithError(err).Error("failed to create the bootstrap admin")
		}
	}

	api := handlers.NewAPI(handlers.Deps{
		Sessions:  sessions,
		Limiter:   security.NewRateLimiter(),
		Auth:      auth,
		Profiles:  services.NewProfileService(users),
		Admin:     admin,
		Inventory: services.NewInventoryService(articles, customers),
		Installed: func(ctx context.Context) (bool, error) {
			return database.TableExists(ctx, db, "users")
		},
		RateLimitKey: cfg.RateLimitKey,
		Debug:        cfg.Debug,
	})

	// === 5. HTTP stack and jobs ===
	if cfg.IsProduction() {
		a.FloodGuard = middleware.NewDefaultFloodGuard()
	}
	a.Handler = NewRouter(cfg, api, a.FloodGuard)
	a.Scheduler = jobs.NewScheduler(users)
	return a, nil
}

// NewRouter builds the chi router. guard may be nil outside production.
func NewRouter(cfg *config.Config, api http.Handler, guard *middleware.FloodGuard) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer(cfg.Debug))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if guard != nil {
		for _, mw := range middleware.ProductionSecurity(guard) {
			r.Use(mw)
		}
		log.Info("Production security enabled (security headers, per-IP flood guard)")
	}
	routes.SetupRoutes(r, api)
	return r
}

// Close releases every connection that was opened.
func (a *App) Close() {
	if a.Mongo != nil {
		if err := database.DisconnectMongo(a.Mongo); err != nil {
			log.WithError(err).Warn("mongo disconnect failed")
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
