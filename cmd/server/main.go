package main

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Yadav003/ebuspass-portal/internal/config"
	"github.com/Yadav003/ebuspass-portal/internal/database"
	"github.com/Yadav003/ebuspass-portal/internal/handler"
	"github.com/Yadav003/ebuspass-portal/internal/logger"
	"github.com/Yadav003/ebuspass-portal/internal/middleware"
	"github.com/Yadav003/ebuspass-portal/internal/payment"
	"github.com/Yadav003/ebuspass-portal/internal/queue"
	"github.com/Yadav003/ebuspass-portal/internal/repository"
	"github.com/Yadav003/ebuspass-portal/internal/router"
	"github.com/Yadav003/ebuspass-portal/internal/storage"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Env)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	store, err := storage.NewLocalStore(cfg.DocumentDir)
	if err != nil {
		logrus.WithError(err).Fatal("document store init failed")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	colleges := repository.NewCollegeRepo(db)
	routes := repository.NewRouteRepo(db)
	drafts := repository.NewDraftRepo(db)
	apps := repository.NewApplicationRepo(db)

	pay := payment.NewSimulator(time.Duration(cfg.PaymentDelayMS) * time.Millisecond)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	publicH := handler.NewPublicHandler(colleges, routes)
	studentH := handler.NewStudentHandler(drafts, apps, routes, store, pay)
	adminH := handler.NewAdminHandler(apps, colleges, routes)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable; cache and rate limiting disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, cacheMW)
	router.RegisterStudent(e, studentH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Audit consumer runs for the lifetime of the process and reconnects on
	// broker failures.
	go queue.StartSubmissionConsumer()

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("server starting")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}
