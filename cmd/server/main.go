package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbarranco/clipmill/internal/config"
	"github.com/mbarranco/clipmill/internal/constants"
	"github.com/mbarranco/clipmill/internal/content"
	"github.com/mbarranco/clipmill/internal/footage"
	"github.com/mbarranco/clipmill/internal/handlers"
	"github.com/mbarranco/clipmill/internal/httpclient"
	"github.com/mbarranco/clipmill/internal/ingest"
	"github.com/mbarranco/clipmill/internal/logger"
	"github.com/mbarranco/clipmill/internal/pipeline"
	"github.com/mbarranco/clipmill/internal/speech"
	"github.com/mbarranco/clipmill/internal/store"
	"github.com/mbarranco/clipmill/internal/topics"
	"github.com/mbarranco/clipmill/internal/transcribe"
)

func main() {
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize DB
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Shared rate-limited HTTP client for generation providers
	hc := httpclient.NewClient(nil, constants.MinRequestInterval)

	// Content provider (chat + images)
	contentClient := content.NewClient(hc, content.Options{
		BaseURL:    cfg.OpenAIBaseURL,
		APIKey:     cfg.OpenAIAPIKey,
		ChatModel:  cfg.ChatModel,
		ImageModel: cfg.ImageModel,
	}, appLogger)

	// Transcription + ingest
	var transcriber transcribe.Transcriber
	if cfg.OpenAIAPIKey != "" {
		transcriber = transcribe.NewWhisperClient(hc, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.WhisperModel, appLogger)
	} else {
		appLogger.Warn("No OpenAI key configured, url/audio input disabled")
	}
	downloadDir := filepath.Join(cfg.AssetsDir, constants.DownloadsDirName)
	normalizer := ingest.NewNormalizer(transcriber, downloadDir, appLogger)

	// Speech providers in configured priority order, skipping keyless ones
	var providers []speech.Provider
	for _, name := range cfg.TTSProviderPriority {
		switch name {
		case "deepgram":
			if cfg.DeepgramAPIKey == "" {
				appLogger.Warn("Skipping deepgram, no API key configured")
				continue
			}
			providers = append(providers, speech.NewDeepgram(hc, cfg.DeepgramAPIKey, cfg.DeepgramModel, appLogger))
		case "elevenlabs":
			if cfg.ElevenLabsAPIKey == "" {
				appLogger.Warn("Skipping elevenlabs, no API key configured")
				continue
			}
			providers = append(providers, speech.NewElevenLabs(hc, cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID, appLogger))
		}
	}

	// Stock footage, optional
	var searcher footage.Searcher
	if cfg.PexelsAPIKey != "" {
		searcher = footage.NewPexelsClient(hc, cfg.PexelsAPIKey, appLogger)
	} else {
		appLogger.Warn("No Pexels key configured, visuals will use image generation only")
	}

	// Pipeline stages + scheduler
	scriptStage := pipeline.NewScriptStage(db, contentClient, cfg.AssetsDir, appLogger)
	assetStage := pipeline.NewAssetStage(db, contentClient, searcher, providers, hc, pipeline.AssetStageOptions{
		AssetsDir:     cfg.AssetsDir,
		TargetVisuals: cfg.TargetVisuals,
		ImageStyle:    cfg.ImageStyle,
		ImageSize:     cfg.ImageSize,
	}, appLogger)
	runner := pipeline.NewRunner(db, scriptStage, assetStage, cfg.ItemsPerRun, appLogger)

	// Topic generation service
	topicService := topics.NewService(db, normalizer, contentClient, appLogger)

	// Initialize Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := handlers.NewHandler(db, topicService, runner, appLogger)
	h.RegisterRoutes(r)

	// Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
