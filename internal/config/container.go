package config

import (
	"paper-extractor/internal/domain"
	"paper-extractor/internal/infra/gemini"
	"paper-extractor/internal/infra/supabase"
	"paper-extractor/internal/repository"
	"paper-extractor/internal/service"
	"paper-extractor/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	Gemini            *gemini.Client
	DocumentStore     domain.DocumentStore
	Rasterizer        domain.Rasterizer
	ExtractionService *service.ExtractionService
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return NewContainerWithConfig(NewConfig())
}

// NewContainerWithConfig wires every dependency from cfg. The Vertex AI client
// is not contacted until the first extraction.
func NewContainerWithConfig(cfg domain.Config) *Container {
	appLogger := logger.NewLogger(cfg.GetLogLevel(), cfg.GetLogFormat())

	model := gemini.NewClient(cfg, appLogger)
	store := newDocumentStore(cfg, appLogger)
	rasterizer := service.NewPDFRasterizer(cfg, appLogger)

	extraction := service.NewExtractionService(
		rasterizer,
		store,
		service.NewTranscriptionStage(model, cfg.GetTranscriptionModel(), appLogger),
		service.NewExtractionStage(model, cfg.GetExtractionModel(), appLogger),
		cfg.GetRequestTimeout(),
		appLogger,
	)

	return &Container{
		Config:            cfg,
		Logger:            appLogger,
		Gemini:            model,
		DocumentStore:     store,
		Rasterizer:        rasterizer,
		ExtractionService: extraction,
	}
}

// newDocumentStore uses Supabase Storage when it is configured and reachable
// and falls back to sending documents inline.
func newDocumentStore(cfg domain.Config, log domain.Logger) domain.DocumentStore {
	client := supabase.NewClient(cfg, log)
	if !client.Configured() {
		log.Warn("Supabase not configured, documents are sent inline instead of by remote reference",
			"document_store", "inline")
		return repository.NewInlineDocumentStore()
	}

	if err := client.Initialize(); err != nil {
		log.Error("Supabase unavailable, sending documents inline", err)
		return repository.NewInlineDocumentStore()
	}
	storage, err := client.Storage()
	if err != nil {
		log.Error("Supabase storage unavailable, sending documents inline", err)
		return repository.NewInlineDocumentStore()
	}
	log.Info("Documents are uploaded to Supabase Storage", "document_store", "supabase", "bucket", cfg.GetSupabaseBucket())
	return repository.NewSupabaseDocumentStore(storage, cfg, log)
}

// Close releases long-lived clients.
func (c *Container) Close() error {
	return c.Gemini.Close()
}
