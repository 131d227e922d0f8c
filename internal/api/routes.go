package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Staged pipeline
		v1.POST("/files", handler.UploadFile)
		v1.POST("/report/trigger", handler.TriggerReport)
		v1.GET("/report/status/:file_id", handler.GetReportStatus)

		// Direct Ladok access
		v1.GET("/results", handler.GetResults)
		v1.POST("/results", handler.ReportResult)
	}
}
