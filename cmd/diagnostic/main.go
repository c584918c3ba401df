// File: cmd/diagnostic/main.go
//
// diagnostic checks the external collaborators configured in .env:
//
//	go run ./cmd/diagnostic completion [-model gpt-3.5-turbo] [-runs 3]
//	go run ./cmd/diagnostic storage
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/iyunix/go-chatnest/internal/config"
	"github.com/iyunix/go-chatnest/internal/services"
	"github.com/iyunix/go-chatnest/internal/services/ai"
	"github.com/iyunix/go-chatnest/internal/services/storage"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: diagnostic completion|storage [flags]")
		os.Exit(2)
	}

	cfg := config.Load()
	logger := services.NewLogger("diagnostic")

	var err error
	switch os.Args[1] {
	case "completion":
		err = runCompletion(cfg, logger, os.Args[2:])
	case "storage":
		err = runStorage(cfg)
	default:
		err = fmt.Errorf("unknown check %q", os.Args[1])
	}
	if err != nil {
		log.Fatalf("FAIL: %v", err)
	}
	log.Println("OK")
}

func runCompletion(cfg *config.Config, logger services.Logger, args []string) error {
	fs := flag.NewFlagSet("completion", flag.ExitOnError)
	model := fs.String("model", cfg.DefaultModel, "model id to query")
	runs := fs.Int("runs", 1, "number of completion calls to time")
	prompt := fs.String("prompt", "Reply with the single word: pong", "prompt to send")
	if err := fs.Parse(args); err != nil {
		return err
	}

	aiConfig := ai.DefaultConfig()
	aiConfig.Provider = cfg.CompletionProvider
	aiConfig.APIKey = cfg.CompletionAPIKey
	aiConfig.BaseURL = cfg.CompletionBaseURL
	aiConfig.Timeout = cfg.CompletionTimeout

	provider, err := ai.NewProvider(aiConfig, logger)
	if err != nil {
		return err
	}
	log.Printf("Provider: %s at %s", aiConfig.Provider, aiConfig.BaseURL)

	ctx := context.Background()
	start := time.Now()
	models, err := provider.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	log.Printf("[TIMING] Model list (%d models) took %s", len(models), time.Since(start))

	var total time.Duration
	for i := 1; i <= *runs; i++ {
		start := time.Now()
		completion, err := provider.GetCompletion(ctx, *model, []ai.Message{{Role: "user", Content: *prompt}}, nil)
		if err != nil {
			return fmt.Errorf("completion run #%d: %w", i, err)
		}
		elapsed := time.Since(start)
		total += elapsed
		log.Printf("[TIMING] Run #%d took %s: %q", i, elapsed, completion.Content)
	}
	if *runs > 0 {
		log.Printf("[TIMING] Average completion latency: %s", total/time.Duration(*runs))
	}
	return nil
}

func runStorage(cfg *config.Config) error {
	blobs, err := storage.NewMinioProvider(&storage.Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		UseSSL:    cfg.S3UseSSL,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := blobs.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}

	key := fmt.Sprintf("diagnostic/%d.txt", time.Now().UnixMilli())
	payload := []byte("chatnest storage check")
	if err := blobs.Put(ctx, key, "text/plain", payload); err != nil {
		return fmt.Errorf("put: %w", err)
	}
	got, err := blobs.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	if !bytes.Equal(got, payload) {
		return fmt.Errorf("read back %d bytes, wrote %d", len(got), len(payload))
	}
	log.Printf("Round trip through %s ok; object left at %s", cfg.S3Bucket, blobs.URL(key))
	return nil
}
