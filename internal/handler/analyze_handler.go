package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"supplierx/internal/middleware"
	"supplierx/internal/port"
)

const invalidBufferMessage = "No valid buffer data was provided"

// AnalyzeHandler proxies a document to the document-analysis service.
// Responses use a bare {"error": "..."} body rather than APIResponse.
type AnalyzeHandler struct {
	analyzer     port.DocumentAnalyzer
	maxBodyBytes int64
}

// NewAnalyzeHandler creates a new AnalyzeHandler.
func NewAnalyzeHandler(analyzer port.DocumentAnalyzer, maxBodyBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, maxBodyBytes: maxBodyBytes}
}

// Analyze handles ANY /api/analyze
// Accepts either application/json {"buffer": [0-255, ...]} or a raw
// application/octet-stream body.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body exceeds size limit"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidBufferMessage})
		return
	}

	var document []byte
	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if mediaType == "application/octet-stream" {
		document = body
	} else {
		document, err = DecodeBuffer(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalidBufferMessage})
			return
		}
	}
	if len(document) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidBufferMessage})
		return
	}

	result, err := h.analyzer.AnalyzeTables(c.Request.Context(), document)
	if err != nil {
		requestID := c.GetString(middleware.ContextKeyRequestID)
		log.Printf("[%s] analyzeHandler.Analyze: %v", requestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", result)
}

var errInvalidBuffer = errors.New("invalid buffer")

// DecodeBuffer extracts the bytes from a {"buffer": [...]} JSON body. Every element
// must be an integer in 0..255.
func DecodeBuffer(body []byte) ([]byte, error) {
	var req struct {
		Buffer json.RawMessage `json:"buffer"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, errInvalidBuffer
	}
	raw := bytes.TrimSpace(req.Buffer)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, errInvalidBuffer
	}

	var values []int
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, errInvalidBuffer
	}
	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, errInvalidBuffer
		}
		out[i] = byte(v)
	}
	return out, nil
}
