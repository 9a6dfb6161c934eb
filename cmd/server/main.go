package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"study-buddy/internal/auth"
	"study-buddy/internal/config"
	apphttp "study-buddy/internal/http"
	"study-buddy/internal/llm"
	"study-buddy/internal/repository"
	mongorepo "study-buddy/internal/repository/mongo"
	"study-buddy/internal/repository/sqlite"
	"study-buddy/internal/service"
	"study-buddy/internal/web"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo, historyRepo, closeStore, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}
	defer closeStore()

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := historyRepo.Init(ctx); err != nil {
		logger.Fatalf("init history repository: %v", err)
	}

	userService := service.NewUserService(userRepo)
	historyService := service.NewHistoryService(historyRepo)

	inferenceClient := llm.NewOpenAI(cfg.Inference.Token, cfg.Inference.BaseURL, cfg.Inference.Model)
	logger.Infof("using inference model %s via %s", cfg.Inference.Model, cfg.Inference.BaseURL)

	studyService := service.NewStudyService(
		inferenceClient,
		historyService,
		cfg.Inference.MaxTokens,
		float32(cfg.Inference.Temperature),
		logger,
	)

	tokens := auth.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	handler := apphttp.NewHandler(userService, studyService, historyService, tokens)
	handler.RegisterRoutes(router)
	web.Register(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.UserRepository, repository.InteractionRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		client, err := mongorepo.Connect(connectCtx, cfg.Database.URI)
		if err != nil {
			return nil, nil, nil, err
		}

		db := client.Database(cfg.Database.Name)
		logger.Infof("using mongodb database %s (collections %s, %s)",
			cfg.Database.Name, cfg.Database.UsersCollection, cfg.Database.HistoryCollection)

		closeStore := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Warnf("mongodb disconnect: %v", err)
			}
		}
		return mongorepo.NewUserRepository(db.Collection(cfg.Database.UsersCollection)),
			mongorepo.NewInteractionRepository(db.Collection(cfg.Database.HistoryCollection)),
			closeStore, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Infof("using sqlite database %s", cfg.Database.Path)

		closeStore := func() {
			if err := db.Close(); err != nil {
				logger.Warnf("sqlite close: %v", err)
			}
		}
		return sqlite.NewUserRepository(db), sqlite.NewInteractionRepository(db), closeStore, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}
