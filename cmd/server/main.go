package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/docvault/internal/blobstore"
	"github.com/Skotchmaster/docvault/internal/config"
	"github.com/Skotchmaster/docvault/internal/events"
	"github.com/Skotchmaster/docvault/internal/httpserver"
	"github.com/Skotchmaster/docvault/internal/logging"
	"github.com/Skotchmaster/docvault/internal/middleware"
	"github.com/Skotchmaster/docvault/internal/repo"
	"github.com/Skotchmaster/docvault/internal/search"
	"github.com/Skotchmaster/docvault/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}

	var blobs blobstore.Store = &blobstore.DBStore{DB: db}
	if cfg.S3Bucket != "" {
		s3Store, err := blobstore.NewS3Store(context.Background(), blobstore.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			log.Fatalf("s3 init error: %v", err)
		}
		blobs = s3Store
	}

	var producer *events.Producer
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer(cfg.KafkaAddress)
		defer producer.Close()
	}

	var indexer *search.Indexer
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		indexer = &search.Indexer{ES: esClient, Index: "documents"}
	}

	authSvc := &service.AuthService{
		Repo:       gormRepo,
		Secret:     cfg.JWTSecret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		Producer:   producer,
	}
	docSvc := &service.DocumentService{
		Repo:     gormRepo,
		Blobs:    blobs,
		Indexer:  indexer,
		Producer: producer,
	}
	shareSvc := &service.ShareService{
		Repo:     gormRepo,
		Producer: producer,
	}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	deps := httpserver.Deps{
		Auth:      &httpserver.AuthHTTP{Svc: authSvc},
		Documents: &httpserver.DocumentHTTP{Svc: docSvc},
		Shares:    &httpserver.ShareHTTP{Svc: shareSvc},
		Gate:      &middleware.AccessGate{Auth: authSvc},
	}
	if indexer != nil {
		deps.Search = &httpserver.SearchHTTP{Indexer: indexer}
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
