package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/showcase-api/internal/config"
	"github.com/showcase-api/internal/infrastructure/dynamo"
	s3infra "github.com/showcase-api/internal/infrastructure/s3"
	"github.com/showcase-api/internal/infrastructure/smtp"
	"github.com/showcase-api/internal/infrastructure/sns"
	transporthttp "github.com/showcase-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// S3-backed media store.
	s3Client := s3infra.NewClient(cfg)
	mediaStore := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS event publisher (optional — disabled without a topic ARN).
	var events sns.Publisher
	if p, err := sns.NewPublisher(cfg); err == nil {
		events = p
	} else {
		log.Printf("WARN: event publisher not available: %v", err)
	}

	deps := &transporthttp.Deps{
		OTPRepo:     dynamo.NewOTPRepo(dynamoClient, cfg.DynamoTables.OTPs),
		ProjectRepo: dynamo.NewProjectRepo(dynamoClient, cfg.DynamoTables.Projects),
		MediaStore:  mediaStore,
		Mailer:      mailer,
		Events:      events,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
