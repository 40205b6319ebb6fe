// Command extract runs one extraction batch over local files and writes the results
// as a workbook.
// Usage: SUPPLIERX_LLM_API_KEY=... go run ./cmd/extract -o supplier_data.xlsx file1.xlsx file2.pdf
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"supplierx/internal/config"
	"supplierx/internal/domain"
	"supplierx/internal/email/noop"
	"supplierx/internal/export"
	"supplierx/internal/extractor"
	"supplierx/internal/llm/openai"
	"supplierx/internal/port"
	"supplierx/internal/service"
	"supplierx/internal/textract"
)

type options struct {
	out    string
	format string
	files  []string
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", "", "output file path (default supplier_data.xlsx or supplier_data.csv)")
	format := fs.String("format", "xlsx", "output format: xlsx or csv")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts := &options{out: *out, format: *format, files: fs.Args()}
	switch opts.format {
	case "xlsx":
		if opts.out == "" {
			opts.out = export.Filename
		}
	case "csv":
		if opts.out == "" {
			opts.out = export.CSVFilename
		}
	default:
		return nil, fmt.Errorf("unknown format %q; use xlsx or csv", opts.format)
	}
	if len(opts.files) == 0 {
		return nil, domain.ErrNoFiles
	}
	return opts, nil
}

// loadFiles reads each path in order. The media type comes from the file extension.
func loadFiles(paths []string) ([]domain.FileInput, error) {
	files := make([]domain.FileInput, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		name := filepath.Base(p)
		files = append(files, domain.FileInput{
			Name:      name,
			MediaType: domain.ResolveMediaType("", name),
			Bytes:     data,
		})
	}
	return files, nil
}

func render(format string, results domain.BatchResult) ([]byte, error) {
	if format == "csv" {
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, results); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return export.Workbook(results)
}

func run(args []string, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	files, err := loadFiles(opts.files)
	if err != nil {
		return err
	}

	var analyzer port.DocumentAnalyzer
	if cfg.Textract.Enabled && cfg.Textract.ExtractPDF {
		analyzer, err = textract.NewAnalyzer(&cfg.Textract)
		if err != nil {
			return fmt.Errorf("initializing Textract client: %w", err)
		}
	}

	batchSvc := service.NewBatchService(extractor.New(analyzer), openai.NewClient(&cfg.LLM), noop.NewNoopReporter(), service.BatchOptions{
		Concurrency:        cfg.Batch.Concurrency,
		EmptyContentPolicy: domain.ParseEmptyContentPolicy(cfg.Batch.EmptyContentPolicy),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	outcome, err := batchSvc.RunBatch(ctx, domain.RunConfig{
		Credential: cfg.LLM.APIKey,
		Files:      files,
	})
	if errors.Is(err, domain.ErrMissingCredential) {
		return fmt.Errorf("%w: set SUPPLIERX_LLM_API_KEY", err)
	}
	if err != nil {
		return err
	}

	for _, e := range outcome.Errors {
		fmt.Fprintf(stderr, "failed: %s [%s]: %s\n", e.Filename, e.Kind, e.Message)
	}

	data, err := render(opts.format, outcome.Results)
	if err != nil {
		return fmt.Errorf("exporting results: %w", err)
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", opts.out, err)
	}

	fmt.Fprintf(stderr, "run %s: %d of %d files extracted, written to %s\n",
		outcome.RunID, outcome.Summary.Succeeded, outcome.Summary.Attempted, opts.out)
	return nil
}
