package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"supplierx/internal/domain"
	"supplierx/internal/export"
	"supplierx/internal/port"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportResult is a rendered export plus, when archiving is enabled, a download link.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	ArchiveKey  string
	ArchiveURL  string
}

// ExportService defines the result export contract.
type ExportService interface {
	Export(ctx context.Context, results domain.BatchResult) (*ExportResult, error)
	ExportCSV(ctx context.Context, results domain.BatchResult) (*ExportResult, error)
}

type exportService struct {
	archive port.ExportArchive
	now     func() time.Time
}

// NewExportService creates a new ExportService implementation. A nil archive disables
// archiving of exported workbooks.
func NewExportService(archive port.ExportArchive) ExportService {
	return &exportService{
		archive: archive,
		now:     time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, results domain.BatchResult) (*ExportResult, error) {
	data, err := export.Workbook(results)
	if err != nil {
		return nil, err
	}
	log.Printf("exportService.Export: rendered %d records (%d bytes)", len(results), len(data))

	out := &ExportResult{
		Filename:    export.Filename,
		ContentType: workbookContentType,
		Data:        data,
	}
	if s.archive != nil {
		s.store(ctx, out)
	}
	return out, nil
}

func (s *exportService) ExportCSV(_ context.Context, results domain.BatchResult) (*ExportResult, error) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, results); err != nil {
		return nil, err
	}
	return &ExportResult{
		Filename:    export.CSVFilename,
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

// store archives the workbook under exports/<date>/<id>/ and attaches the download
// link. Failures are logged only.
func (s *exportService) store(ctx context.Context, out *ExportResult) {
	key := fmt.Sprintf("exports/%s/%s/%s", s.now().UTC().Format("2006-01-02"), uuid.New(), out.Filename)

	archived, err := s.archive.Put(ctx, port.ExportObject{
		Key:         key,
		Filename:    out.Filename,
		ContentType: out.ContentType,
		Data:        out.Data,
	})
	if err != nil {
		log.Printf("exportService.store: failed to archive %s: %v", key, err)
		return
	}

	out.ArchiveKey = archived.Key
	out.ArchiveURL = archived.URL
	log.Printf("exportService.store: archived %s (link expires %s)", archived.Key, archived.ExpiresAt.Format(time.RFC3339))
}
