package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"supplierx/internal/domain"
	"supplierx/internal/llm"
	"supplierx/internal/port"
)

// ContentExtractor turns one file into prompt-ready content.
type ContentExtractor interface {
	Extract(ctx context.Context, file domain.FileInput) (domain.ExtractedContent, error)
}

// BatchOptions tunes how a batch run is executed.
type BatchOptions struct {
	Concurrency        int
	EmptyContentPolicy domain.EmptyContentPolicy
}

// BatchService defines the batch extraction contract.
type BatchService interface {
	RunBatch(ctx context.Context, cfg domain.RunConfig) (*domain.BatchOutcome, error)
}

type batchService struct {
	extractor ContentExtractor
	client    port.CompletionClient
	reporter  port.RunReporter
	opts      BatchOptions
}

// NewBatchService creates a new BatchService implementation. reporter may be nil.
func NewBatchService(
	extractor ContentExtractor,
	client port.CompletionClient,
	reporter port.RunReporter,
	opts BatchOptions,
) BatchService {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.EmptyContentPolicy == "" {
		opts.EmptyContentPolicy = domain.EmptyContentFail
	}
	return &batchService{
		extractor: extractor,
		client:    client,
		reporter:  reporter,
		opts:      opts,
	}
}

// fileOutcome is the result of processing one file: exactly one of rec or runErr is set.
type fileOutcome struct {
	rec    domain.Record
	runErr *domain.RunError
}

func (s *batchService) RunBatch(ctx context.Context, cfg domain.RunConfig) (*domain.BatchOutcome, error) {
	if len(cfg.Files) == 0 {
		return nil, domain.ErrNoFiles
	}
	if cfg.Credential == "" {
		return nil, domain.ErrMissingCredential
	}

	runID := uuid.New()
	started := time.Now().UTC()
	log.Printf("batchService.RunBatch: run %s starting with %d files (concurrency=%d, empty_content=%s)",
		runID, len(cfg.Files), s.opts.Concurrency, s.opts.EmptyContentPolicy)

	slots := make([]fileOutcome, len(cfg.Files))
	if s.opts.Concurrency == 1 {
		for i, f := range cfg.Files {
			slots[i] = s.runFile(ctx, cfg.Credential, f)
		}
	} else {
		g := new(errgroup.Group)
		g.SetLimit(s.opts.Concurrency)
		for i, f := range cfg.Files {
			g.Go(func() error {
				slots[i] = s.runFile(ctx, cfg.Credential, f)
				return nil
			})
		}
		_ = g.Wait()
	}

	results := make(domain.BatchResult, 0, len(cfg.Files))
	runErrors := make([]domain.RunError, 0)
	for _, slot := range slots {
		if slot.runErr != nil {
			runErrors = append(runErrors, *slot.runErr)
			continue
		}
		results = append(results, slot.rec)
	}

	summary := domain.RunSummary{
		RunID:      runID,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Attempted:  len(cfg.Files),
		Succeeded:  len(results),
		Failed:     len(runErrors),
		Errors:     runErrors,
	}
	log.Printf("batchService.RunBatch: run %s finished: %d succeeded, %d failed in %s",
		runID, summary.Succeeded, summary.Failed, summary.FinishedAt.Sub(summary.StartedAt))
	for _, re := range runErrors {
		log.Printf("batchService.RunBatch: run %s file %q failed (%s): %s", runID, re.Filename, re.Kind, re.Message)
	}
	s.report(ctx, summary)

	return &domain.BatchOutcome{
		RunID:   runID,
		Results: results,
		Errors:  runErrors,
		Summary: summary,
	}, nil
}

// runFile processes one file, converting a panic or a canceled context into a RunError.
func (s *batchService) runFile(ctx context.Context, credential string, file domain.FileInput) (out fileOutcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("batchService.runFile: panic processing %q: %v", file.Name, r)
			out = fileOutcome{runErr: &domain.RunError{
				Filename: file.Name,
				Message:  fmt.Sprintf("internal error: %v", r),
				Kind:     domain.ErrorKindInternal,
			}}
		}
	}()

	if err := ctx.Err(); err != nil {
		return fileOutcome{runErr: &domain.RunError{
			Filename: file.Name,
			Message:  "run canceled before file was processed",
			Kind:     domain.ErrorKindCanceled,
		}}
	}

	rec, err := s.processFile(ctx, credential, file)
	if err != nil {
		return fileOutcome{runErr: &domain.RunError{
			Filename: file.Name,
			Message:  err.Error(),
			Kind:     classifyError(err),
		}}
	}
	return fileOutcome{rec: rec}
}

// processFile runs extract, prompt, complete and parse for one file.
func (s *batchService) processFile(ctx context.Context, credential string, file domain.FileInput) (domain.Record, error) {
	content, err := s.extractor.Extract(ctx, file)
	if err != nil {
		return domain.Record{}, &extractionError{err: err}
	}

	if content.IsEmpty() {
		if s.opts.EmptyContentPolicy == domain.EmptyContentFail {
			if content.Format == domain.ContentFormatEmpty {
				return domain.Record{}, fmt.Errorf("%w %q: %w", domain.ErrUnsupportedMedia, file.MediaType, domain.ErrEmptyContent)
			}
			return domain.Record{}, fmt.Errorf("%s (%s): %w", file.Name, file.MediaType, domain.ErrEmptyContent)
		}
		log.Printf("batchService.processFile: %q has no usable content, calling model anyway", file.Name)
	}

	prompt := llm.BuildSupplierPrompt(content, file.MediaType)
	raw, err := s.client.Complete(ctx, prompt, credential)
	if err != nil {
		return domain.Record{}, err
	}

	rec, err := llm.ParseCompletion(raw)
	if err != nil {
		return domain.Record{}, err
	}
	return rec.WithFilename(file.Name), nil
}

func (s *batchService) report(ctx context.Context, summary domain.RunSummary) {
	if s.reporter == nil {
		return
	}
	if err := s.reporter.ReportRun(ctx, summary); err != nil {
		log.Printf("batchService.report: failed to report run %s: %v", summary.RunID, err)
	}
}

// extractionError marks a content extractor failure.
type extractionError struct {
	err error
}

func (e *extractionError) Error() string { return "extracting content: " + e.err.Error() }
func (e *extractionError) Unwrap() error { return e.err }

// classifyError maps a per-file error to its RunError kind.
func classifyError(err error) domain.ErrorKind {
	var (
		transportErr *llm.TransportError
		upstreamErr  *llm.UpstreamError
		malformedErr *llm.MalformedResponseError
		extractErr   *extractionError
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.ErrorKindCanceled
	case errors.Is(err, domain.ErrEmptyContent):
		return domain.ErrorKindEmptyContent
	case errors.As(err, &extractErr):
		return domain.ErrorKindExtraction
	case errors.As(err, &transportErr):
		return domain.ErrorKindTransport
	case errors.As(err, &upstreamErr):
		return domain.ErrorKindUpstream
	case errors.As(err, &malformedErr):
		return domain.ErrorKindMalformedResponse
	default:
		return domain.ErrorKindInternal
	}
}
