package router

import (
	"github.com/gin-gonic/gin"

	"supplierx/internal/handler"
	"supplierx/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
// analyzeH may be nil, in which case /api/analyze is not registered.
func Setup(
	corsOrigins []string,
	healthH *handler.HealthHandler,
	extractionH *handler.ExtractionHandler,
	analyzeH *handler.AnalyzeHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)

	v1 := r.Group("/api/v1")

	// Extraction routes - the bearer token is the caller's model credential
	extractions := v1.Group("/extractions")
	extractions.POST("", middleware.Credential(), extractionH.Run)
	extractions.POST("/workbook", middleware.Credential(), extractionH.Workbook)
	extractions.POST("/export", extractionH.Export)

	// Document-analysis proxy
	if analyzeH != nil {
		r.Any("/api/analyze", analyzeH.Analyze)
	}

	return r
}
