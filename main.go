package main

import (
	"os"
	"os/signal"
	"syscall"

	"league-stats-engine/cache"
	"league-stats-engine/config"
	"league-stats-engine/handlers"
	"league-stats-engine/middleware"
	"league-stats-engine/models"
	"league-stats-engine/services"
	"league-stats-engine/store"
	"league-stats-engine/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file found, reading environment variables directly")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := db.AutoMigrate(
		&models.League{},
		&models.Season{},
		&models.Player{},
		&models.Match{},
		&models.PlayerMatchStat{},
		&models.Vote{},
	); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	st := store.NewGormStore(db)
	ca := cache.New(log)
	statsService := services.NewStatsService(st, ca, cfg, log)
	xpService := services.NewXPService(st, ca, cfg.Points, log)

	worker := workers.NewMatchEndWorker(db, ca, log)
	sched, err := worker.Start()
	if err != nil {
		log.WithError(err).Fatal("failed to start match-end worker")
	}

	app := fiber.New()
	app.Use(middleware.RequestLogger(log))
	handlers.SetupStatsRoutes(app, statsService)
	handlers.SetupXPRoutes(app, xpService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()
	log.WithField("port", port).Info("✅ stats engine listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	_ = sched.Shutdown()
	_ = app.Shutdown()
}
