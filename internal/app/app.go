package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/clients/redis"
	"github.com/velinpetkov/techlane-backend/internal/db"
	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/seed"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	ruleCache redis.RuleCache
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	// The rule cache is an optimization; the service degrades to direct
	// reads when redis is absent, unless the deployment insists on it.
	ruleCache, err := redis.NewRuleCache(log)
	if err != nil {
		if cfg.RedisRequired {
			log.Sync()
			return nil, fmt.Errorf("init redis rule cache: %w", err)
		}
		log.Warn("Running without the redis rule cache", "error", err)
		ruleCache = nil
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, reposet, ruleCache)
	handlerset := wireHandlers(log, serviceset)
	middlewareset := wireMiddleware(log, cfg)
	router := wireRouter(cfg, handlerset, middlewareset)

	a := &App{
		Log:       log,
		DB:        theDB,
		Router:    router,
		Cfg:       cfg,
		Repos:     reposet,
		Services:  serviceset,
		ruleCache: ruleCache,
	}

	if cfg.SeedFile != "" {
		if err := a.applySeed(cfg.SeedFile); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func (a *App) applySeed(path string) error {
	file, err := seed.Load(path)
	if err != nil {
		return err
	}
	return seed.Apply(context.Background(), a.DB, a.Log, file)
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Starting HTTP server", "addr", addr)
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.ruleCache != nil {
		if err := a.ruleCache.Close(); err != nil {
			a.Log.Warn("Closing rule cache failed", "error", err)
		}
		a.ruleCache = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
