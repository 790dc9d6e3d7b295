package main

import (
	"os"
	"os/signal"
	"syscall"

	"simplelms/backend/config"
	"simplelms/backend/routes"
	"simplelms/backend/utils"

	"github.com/rs/zerolog/log"
)

// @title Simple LMS API
// @version 1.0
// @description Courses, enrollment, comments, announcements and certificates.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("error initializing database")
	}
	if err := utils.EnsureAdmin(db, cfg); err != nil {
		logger.Fatal().Err(err).Msg("error seeding admin user")
	}

	app := routes.NewApp(db, cfg, logger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info().Msg("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().Str("port", cfg.ServerPort).Msg("starting server")
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
