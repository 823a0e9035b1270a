package main

import (
	"context"
	"fmt"
	"net/http"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"broomate_server/config"
	"broomate_server/pkg/logger"
	"broomate_server/realtime"
	"broomate_server/repository"
	"broomate_server/services"
	"broomate_server/storage"
)

// app aggregates the wired services. The business API boundary that
// routes requests into them sits in front of this server.
type app struct {
	Accounts  *services.AccountService
	Swipes    *services.SwipeService
	Bookmarks *services.BookmarkService
	Chat      *services.ChatService
	Rooms     *services.RoomService
	Hub       *realtime.Hub
}

func main() {
	cfg := config.Load()

	mode := logger.DevelopmentMode
	if cfg.Server.Environment == "production" {
		mode = logger.ProductionMode
	}
	log := logger.New(mode)
	defer log.Sync()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		log.Fatal("unable to load AWS config", zap.Error(err))
	}

	db := repository.NewDynamo(dynamodb.NewFromConfig(awsCfg), log)
	store := &repository.DynamoStore{DB: db}

	uploader := storage.NewUploader(
		s3.NewFromConfig(awsCfg),
		cfg.S3.Bucket,
		cfg.S3.PresignTTL,
		cfg.S3.UploadWorkers,
		log,
	)

	hub := realtime.NewHub(log)
	notifier := realtime.NewService(hub, log)

	a := &app{
		Accounts:  &services.AccountService{Store: store, Storage: uploader, Log: log},
		Swipes:    &services.SwipeService{Store: store, Notifier: notifier, Log: log},
		Bookmarks: &services.BookmarkService{Store: store, Notifier: notifier, Log: log},
		Chat:      &services.ChatService{Store: store, Storage: uploader, Notifier: notifier, Log: log},
		Rooms:     &services.RoomService{Store: store, Storage: uploader, Log: log},
		Hub:       hub,
	}

	r := mux.NewRouter()
	registerRoutes(r, a, log)

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(r)

	addr := ":" + cfg.Server.Port
	log.Info("starting server", zap.String("addr", addr), zap.String("env", cfg.Server.Environment))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func registerRoutes(r *mux.Router, a *app, log *zap.Logger) {
	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "Welcome to Broomate Server!")
	}).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}).Methods(http.MethodGet)
	r.HandleFunc("/ws", realtime.ServeWS(a.Hub, log)).Methods(http.MethodGet)
}
