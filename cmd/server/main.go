package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"supplierx/internal/config"
	"supplierx/internal/domain"
	"supplierx/internal/email/noop"
	"supplierx/internal/email/ses"
	"supplierx/internal/extractor"
	"supplierx/internal/handler"
	"supplierx/internal/llm/openai"
	"supplierx/internal/port"
	"supplierx/internal/router"
	"supplierx/internal/service"
	s3storage "supplierx/internal/storage/s3"
	"supplierx/internal/textract"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize document analysis
	var analyzer port.DocumentAnalyzer
	if cfg.Textract.Enabled {
		analyzer, err = textract.NewAnalyzer(&cfg.Textract)
		if err != nil {
			return fmt.Errorf("failed to initialize Textract client: %w", err)
		}
	}
	var pdfAnalyzer port.DocumentAnalyzer
	if cfg.Textract.ExtractPDF {
		pdfAnalyzer = analyzer
	}

	// Initialize run reporting
	var reporter port.RunReporter
	switch cfg.Email.Provider {
	case "ses":
		reporter, err = ses.NewSESReporter(&cfg.Email)
		if err != nil {
			return fmt.Errorf("failed to initialize SES reporter: %w", err)
		}
	default:
		reporter = noop.NewNoopReporter()
	}

	// Initialize export archive
	var archive port.ExportArchive
	if cfg.Export.Archive {
		archive, err = s3storage.NewExportArchive(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 export archive: %w", err)
		}
	}

	// Initialize services
	completion := openai.NewClient(&cfg.LLM)
	batchSvc := service.NewBatchService(extractor.New(pdfAnalyzer), completion, reporter, service.BatchOptions{
		Concurrency:        cfg.Batch.Concurrency,
		EmptyContentPolicy: domain.ParseEmptyContentPolicy(cfg.Batch.EmptyContentPolicy),
	})
	exportSvc := service.NewExportService(archive)

	// Initialize handlers
	healthH := handler.NewHealthHandler(completion.Model())
	extractionH := handler.NewExtractionHandler(batchSvc, exportSvc, handler.ExtractionLimits{
		MaxFiles:       cfg.Batch.MaxFiles,
		MaxUploadBytes: cfg.Server.MaxUploadMB * 1024 * 1024,
	})
	var analyzeH *handler.AnalyzeHandler
	if analyzer != nil {
		analyzeH = handler.NewAnalyzeHandler(analyzer, cfg.Textract.MaxBodyBytes())
	}

	// Setup router
	r := router.Setup(cfg.CORS.AllowedOrigins, healthH, extractionH, analyzeH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (model=%s, concurrency=%d, textract=%t, archive=%t)",
			cfg.Server.Port, completion.Model(), cfg.Batch.Concurrency, analyzer != nil, cfg.Export.Archive)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
