package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindcanvas/mindcanvas-service/internal/middleware"
	"github.com/mindcanvas/mindcanvas-service/internal/services"
	"github.com/mindcanvas/mindcanvas-service/internal/utils"
)

type HandlerManager struct {
	session           *middleware.AdminSession
	publicHandler     *PublicHandler
	adminHandler      *AdminHandler
	submissionHandler *SubmissionHandler
	exportHandler     *ExportHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	session *middleware.AdminSession,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		session:           session,
		publicHandler:     NewPublicHandler(serviceManager.Test(), serviceManager.Submission(), serviceManager.Scoring(), logger),
		adminHandler:      NewAdminHandler(session, serviceManager.Test(), logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), serviceManager.Scoring(), logger),
		exportHandler:     NewExportHandler(serviceManager.Export(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// Respondent routes
		v1.GET("/tests/:id", hm.publicHandler.GetTest)
		v1.POST("/tests/:id/submissions", hm.publicHandler.StartSubmission)

		submissions := v1.Group("/submissions")
		{
			submissions.PUT("/:id/answers", hm.publicHandler.RecordAnswer)
			submissions.POST("/:id/finish", hm.publicHandler.FinishSubmission)
			submissions.GET("/:id/result", hm.publicHandler.GetResult)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/login", hm.adminHandler.Login)
			admin.POST("/logout", hm.adminHandler.Logout)

			protected := admin.Group("", hm.session.RequireAdmin())

			// Test catalogue
			tests := protected.Group("/tests")
			{
				tests.POST("", hm.adminHandler.CreateTest)
				tests.GET("", hm.adminHandler.ListTests)
				tests.GET("/:id", hm.adminHandler.GetTest)
				tests.PUT("/:id", hm.adminHandler.UpdateTest)
				tests.GET("/:id/stats", hm.adminHandler.GetTestStats)
				tests.POST("/:id/questions", hm.adminHandler.AddQuestion)

				// Exports
				tests.GET("/:id/export.csv", hm.exportHandler.ExportCSV)
				tests.GET("/:id/export.xlsx", hm.exportHandler.ExportXLSX)
			}

			protected.DELETE("/questions/:id", hm.adminHandler.DeleteQuestion)
			protected.POST("/questions/:id/options", hm.adminHandler.AddOption)
			protected.DELETE("/options/:id", hm.adminHandler.DeleteOption)

			// Submissions
			adminSubmissions := protected.Group("/submissions")
			{
				adminSubmissions.GET("", hm.submissionHandler.ListSubmissions)
				adminSubmissions.GET("/:id", hm.submissionHandler.GetSubmission)
				adminSubmissions.GET("/:id/result", hm.submissionHandler.GetResult)
				adminSubmissions.POST("/:id/rescore", hm.submissionHandler.Rescore)
				adminSubmissions.GET("/:id/preview", hm.submissionHandler.Preview)
				adminSubmissions.DELETE("/:id", hm.submissionHandler.DeleteSubmission)
			}
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mindcanvas-service",
	})
}
