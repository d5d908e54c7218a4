// cmd/mailcheck/main.go
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/pkg/email"
	"github.com/your-org/bookstore-backend/internal/pkg/logger"
)

func main() {
	to := flag.String("to", "", "recipient of the test message")
	timeout := flag.Duration("timeout", 30*time.Second, "send timeout")
	flag.Parse()

	if *to == "" && flag.NArg() > 0 {
		*to = flag.Arg(0)
	}
	if *to == "" {
		log.Fatal("Usage: go run ./cmd/mailcheck -to <address>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, closer, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()

	emailService, err := email.NewService(cfg, logr)
	if err != nil {
		logr.WithError(err).Fatal("Failed to create email service")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := emailService.SendTestEmail(ctx, *to); err != nil {
		logr.WithError(err).WithField("provider", cfg.Email.Provider).Fatal("Send failed")
	}

	logr.WithField("to", *to).Info("✅ Email sent successfully!")
}
