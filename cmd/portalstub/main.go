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

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-fee-portal/internal/config"
	"github.com/go-fee-portal/internal/domain"
	s3infra "github.com/go-fee-portal/internal/infrastructure/s3"
	"github.com/go-fee-portal/internal/infrastructure/sns"
	"github.com/go-fee-portal/internal/portaltest"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	opts := portaltest.Options{
		Accounts: []portaltest.Account{
			{UserID: "demo", Password: "demo123", Name: "Demo Parent", Mobile: "9000000001"},
		},
		JWTSecret:      []byte(cfg.StubJWTSecret),
		TokenTTL:       cfg.StubJWTExpiry,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      rate.Every(time.Second),
		Burst:          5,
		AccessLog:      true,
		Dashboard: domain.Dashboard{
			Color:    domain.ThemeColor{DynamicColor: domain.DefaultThemeColor},
			Carousel: []string{"https://picsum.photos/seed/fees1/800/300", "https://picsum.photos/seed/fees2/800/300"},
			Student:  domain.StudentCounts{Boy: 1, Girl: 1},
			Amount:   domain.FeeAmounts{Total: 48000, Paid: 30000, Due: 18000},
		},
	}

	// Banner images served from S3 (optional).
	if cfg.BannerBucket != "" && len(cfg.BannerKeys) > 0 {
		s3Client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			log.Fatalf("s3 client: %v", err)
		}
		presigner := awss3.NewPresignClient(s3Client)
		opts.Banners = s3infra.NewBannerStore(presigner, cfg.BannerBucket, cfg.BannerKeys, cfg.BannerURLTTL)
	}

	// OTP delivery over SNS (optional).
	if cfg.StubSMS {
		snsClient, err := sns.NewClient(ctx, cfg)
		if err != nil {
			log.Printf("WARN: SNS sender not available: %v", err)
		} else {
			opts.SMS = sns.NewSender(snsClient)
		}
	}

	stub, err := portaltest.New(opts)
	if err != nil {
		log.Fatalf("stub setup: %v", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.StubPort),
		Handler:      stub.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Portal stub on http://localhost:%s%s/ (user demo / demo123, otp 123456)",
			cfg.StubPort, portaltest.DefaultPrefix)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down stub...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Stub stopped")
}
