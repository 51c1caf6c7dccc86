package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pivot/internal/api"
	"pivot/internal/auth"
	"pivot/internal/config"
	"pivot/internal/content"
	"pivot/internal/extractor"
	"pivot/internal/objectstore"
	"pivot/internal/speech"
	"pivot/internal/store"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Error("Error disconnecting from MongoDB")
		}
	}()
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to reach MongoDB: %v", err)
	}

	repo := store.NewMongo(client.Database(cfg.DBName), log)

	var objects objectstore.ObjectStore
	r2, err := objectstore.NewR2(objectstore.R2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		Bucket:          cfg.R2BucketName,
		PublicURL:       cfg.R2PublicURL,
		Expiry:          cfg.PresignExpiry(),
	}, log)
	if err != nil {
		log.WithError(err).Warn("Object storage disabled; direct uploads will not work")
	} else {
		objects = r2
	}

	var synth speech.Synthesizer
	if cfg.TTSAPIURL != "" && cfg.TTSAPIKey != "" {
		synth = speech.NewHTTPSynthesizer(cfg.TTSAPIURL, cfg.TTSAPIKey, log)
	} else {
		log.Warn("TTS disabled; audio generation will not work")
	}

	svc := content.NewService(repo, extractor.NewHTTPExtractor(log), objects, synth, log)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry())
	server := api.NewServer(repo, svc, tokens, cfg.WidgetBaseURL, log)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("PIVOT API listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-runCtx.Done()
	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
}
