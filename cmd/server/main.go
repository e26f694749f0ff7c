package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkearsley/madness-pool/brackets"
	"github.com/mkearsley/madness-pool/config"
	"github.com/mkearsley/madness-pool/db"
	"github.com/mkearsley/madness-pool/handlers"
	"github.com/mkearsley/madness-pool/repositories"
	"github.com/mkearsley/madness-pool/routes"
	"github.com/mkearsley/madness-pool/services"
	"github.com/mkearsley/madness-pool/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	// Icon storage is optional; the server runs without it.
	var uploader storage.FileUploader
	if cfg.HasR2() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2Bucket,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, icon uploads disabled")
	}

	wsHub := brackets.NewHub()
	go wsHub.Run()

	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	rankRepo := repositories.NewPostgresTeamRankRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	roundRepo := repositories.NewPostgresRoundRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	predictionRepo := repositories.NewPostgresPredictionRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)

	teamService := services.NewTeamService(teamRepo, rankRepo, uploader)
	tournamentService := services.NewTournamentService(tournamentRepo, roundRepo, matchRepo, teamRepo)
	bracketService := services.NewBracketService(tournamentRepo, roundRepo, matchRepo, wsHub)
	matchService := services.NewMatchService(matchRepo, wsHub)
	predictionService := services.NewPredictionService(matchRepo, teamRepo, userRepo, predictionRepo)
	scoringService := services.NewScoringService(tournamentRepo, matchRepo, rankRepo, predictionRepo, userRepo, groupRepo)
	groupService := services.NewGroupService(groupRepo, tournamentRepo, userRepo)
	userService := services.NewUserService(userRepo)

	router := routes.InitRoutes(routes.Handlers{
		Team:       handlers.NewTeamHandler(teamService),
		Tournament: handlers.NewTournamentHandler(tournamentService, bracketService, scoringService),
		Match:      handlers.NewMatchHandler(matchService),
		Prediction: handlers.NewPredictionHandler(predictionService),
		Group:      handlers.NewGroupHandler(groupService),
		User:       handlers.NewUserHandler(userService),
		WebSocket:  handlers.NewWebSocketHandler(wsHub, tournamentService),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	shutdownErr := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		logger.Info("shutting down server", slog.String("signal", s.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		shutdownErr <- server.Shutdown(ctx)
	}()

	logger.Info("starting server", slog.String("addr", server.Addr))
	err = server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}

	if err := <-shutdownErr; err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
