package router_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"supplierx/internal/domain"
	"supplierx/internal/handler"
	"supplierx/internal/router"
	"supplierx/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(withAnalyzer bool) (*gin.Engine, *mocks.MockBatchService, *mocks.MockDocumentAnalyzer) {
	batchSvc := new(mocks.MockBatchService)
	exportSvc := new(mocks.MockExportService)
	analyzer := new(mocks.MockDocumentAnalyzer)

	var analyzeH *handler.AnalyzeHandler
	if withAnalyzer {
		analyzeH = handler.NewAnalyzeHandler(analyzer, 1024)
	}
	r := router.Setup(
		[]string{"http://localhost:3000"},
		handler.NewHealthHandler("gpt-4"),
		handler.NewExtractionHandler(batchSvc, exportSvc, handler.ExtractionLimits{MaxFiles: 5}),
		analyzeH,
	)
	return r, batchSvc, analyzer
}

func TestRouter_Healthz(t *testing.T) {
	r, _, _ := setupRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Extractions_RequiresCredential(t *testing.T) {
	r, batchSvc, _ := setupRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/extractions", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	batchSvc.AssertNotCalled(t, "RunBatch", mock.Anything, mock.Anything)
}

func TestRouter_Extractions_EndToEnd(t *testing.T) {
	r, batchSvc, _ := setupRouter(true)
	batchSvc.On("RunBatch", mock.Anything, mock.MatchedBy(func(cfg domain.RunConfig) bool {
		return cfg.Credential == "sk-live" && len(cfg.Files) == 1 && cfg.Files[0].MediaType == domain.MediaTypePDF
	})).Return(&domain.BatchOutcome{RunID: uuid.New(), Results: domain.BatchResult{}, Errors: []domain.RunError{}}, nil)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("files", "catalog.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF"))
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/extractions", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer sk-live")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	batchSvc.AssertExpectations(t)
}

func TestRouter_Export_NoCredentialNeeded(t *testing.T) {
	r, _, _ := setupRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/extractions/export", bytes.NewReader([]byte(`{"results":`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Analyze(t *testing.T) {
	r, _, analyzer := setupRouter(true)
	analyzer.On("AnalyzeTables", mock.Anything, []byte{1, 2}).Return(json.RawMessage(`{"Blocks":[]}`), nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/analyze", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader([]byte(`{"buffer":[1,2]}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"Blocks":[]}`, w.Body.String())
}

func TestRouter_AnalyzeDisabled(t *testing.T) {
	r, _, _ := setupRouter(false)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/analyze", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r, _, _ := setupRouter(true)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/api/v1/extractions", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
