package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"supplierx/internal/domain"
	"supplierx/internal/middleware"
	"supplierx/internal/service"
)

// ExtractionLimits bounds a single extraction request.
type ExtractionLimits struct {
	MaxFiles       int
	MaxUploadBytes int64
}

// ExtractionHandler handles batch extraction and export endpoints.
type ExtractionHandler struct {
	batchService  service.BatchService
	exportService service.ExportService
	limits        ExtractionLimits
}

// NewExtractionHandler creates a new ExtractionHandler.
func NewExtractionHandler(batchService service.BatchService, exportService service.ExportService, limits ExtractionLimits) *ExtractionHandler {
	return &ExtractionHandler{
		batchService:  batchService,
		exportService: exportService,
		limits:        limits,
	}
}

// Run handles POST /api/v1/extractions
func (h *ExtractionHandler) Run(c *gin.Context) {
	outcome, ok := h.runBatch(c)
	if !ok {
		return
	}

	if len(outcome.Errors) > 0 {
		// 207 Multi-Status for partial failure
		RespondMultiStatus(c, outcome)
		return
	}
	RespondOK(c, outcome)
}

// Workbook handles POST /api/v1/extractions/workbook
func (h *ExtractionHandler) Workbook(c *gin.Context) {
	outcome, ok := h.runBatch(c)
	if !ok {
		return
	}

	c.Header("X-Run-ID", outcome.RunID.String())
	c.Header("X-Run-Errors", strconv.Itoa(len(outcome.Errors)))

	if len(outcome.Results) == 0 {
		status, code, msg := MapDomainError(domain.ErrEmptyResult)
		c.JSON(status, APIResponse{Success: false, Data: outcome, Error: &APIError{Code: code, Message: msg}})
		return
	}

	out, err := h.exportService.Export(c.Request.Context(), outcome.Results)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.sendFile(c, out)
}

type exportRequest struct {
	Results []domain.Record `json:"results"`
}

// Export handles POST /api/v1/extractions/export
// Query param format=csv returns CSV instead of xlsx.
func (h *ExtractionHandler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, domain.ErrInvalidRecord) {
			HandleError(c, err)
			return
		}
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be {\"results\": [...]}")
		return
	}
	for i, rec := range req.Results {
		if rec.Filename() == "" {
			RespondError(c, http.StatusBadRequest, "INVALID_RECORD", fmt.Sprintf("result %d has no filename", i))
			return
		}
	}

	var (
		out *service.ExportResult
		err error
	)
	switch c.DefaultQuery("format", "xlsx") {
	case "xlsx":
		out, err = h.exportService.Export(c.Request.Context(), req.Results)
	case "csv":
		out, err = h.exportService.ExportCSV(c.Request.Context(), req.Results)
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be xlsx or csv")
		return
	}
	if err != nil {
		HandleError(c, err)
		return
	}
	h.sendFile(c, out)
}

func (h *ExtractionHandler) sendFile(c *gin.Context, out *service.ExportResult) {
	if out.ArchiveURL != "" {
		c.Header("X-Export-URL", out.ArchiveURL)
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

// runBatch reads the uploaded files and runs the batch. On failure the error response
// has already been written.
func (h *ExtractionHandler) runBatch(c *gin.Context) (*domain.BatchOutcome, bool) {
	credential := middleware.GetCredential(c)
	if credential == "" {
		HandleError(c, domain.ErrMissingCredential)
		return nil, false
	}

	files, err := h.readUploads(c)
	if err != nil {
		if errors.Is(err, domain.ErrNoFiles) || errors.Is(err, domain.ErrTooManyFiles) || errors.Is(err, domain.ErrFileTooLarge) {
			HandleError(c, err)
		} else {
			log.Printf("extractionHandler.runBatch: reading uploads: %v", err)
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart form is required")
		}
		return nil, false
	}

	outcome, err := h.batchService.RunBatch(c.Request.Context(), domain.RunConfig{
		Credential: credential,
		Files:      files,
	})
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return outcome, true
}

// readUploads returns the "files" parts of a multipart request in upload order.
func (h *ExtractionHandler) readUploads(c *gin.Context) ([]domain.FileInput, error) {
	if h.limits.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.limits.MaxUploadBytes)
	}

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, domain.ErrFileTooLarge
		}
		return nil, err
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return nil, domain.ErrNoFiles
	}
	if h.limits.MaxFiles > 0 && len(fileHeaders) > h.limits.MaxFiles {
		return nil, domain.ErrTooManyFiles
	}

	files := make([]domain.FileInput, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		data, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", fh.Filename, err)
		}
		files = append(files, domain.FileInput{
			Name:      fh.Filename,
			MediaType: domain.ResolveMediaType(fh.Header.Get("Content-Type"), fh.Filename),
			Bytes:     data,
		})
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
