package handlers

import (
	"github.com/SAP-F-2025/practice-service/internal/services"
	"github.com/SAP-F-2025/practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	healthHandler     *HealthHandler
	authHandler       *AuthHandler
	questionHandler   *QuestionHandler
	submissionHandler *SubmissionHandler

	authMiddleware gin.HandlerFunc
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	store Pinger,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		healthHandler:     &HealthHandler{BaseHandler: NewBaseHandler(logger), store: store},
		authHandler:       NewAuthHandler(serviceManager.Auth(), logger),
		questionHandler:   NewQuestionHandler(serviceManager.Question(), serviceManager.ImportExport(), logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Grading(), serviceManager.Stats(), logger),
		authMiddleware:    AuthMiddleware(serviceManager.Auth().Verifier(), logger),
	}
}

// SetupRoutes registers every route under apiPrefix plus the root and
// health endpoints.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, apiPrefix string) {
	router.GET("/", hm.healthHandler.Root)
	router.GET("/health", hm.healthHandler.Health)

	v1 := router.Group(apiPrefix)
	{
		v1.GET("/", hm.healthHandler.Root)
		v1.GET("/health", hm.healthHandler.Health)

		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", hm.authHandler.Register)
			authRoutes.POST("/token", hm.authHandler.Token)
			authRoutes.GET("/me", hm.authMiddleware, hm.authHandler.Me)
		}

		submissions := v1.Group("/submissions", hm.authMiddleware)
		{
			submissions.POST("", hm.submissionHandler.SubmitAnswer)
			submissions.GET("", hm.submissionHandler.ListSubmissions)
			submissions.GET("/stats", hm.submissionHandler.GetStats)
		}

		questions := v1.Group("/questions", hm.authMiddleware)
		{
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.GET("/topic/:topic", hm.questionHandler.GetQuestionsByTopic)
			questions.GET("/random", hm.questionHandler.GetRandomQuestions)
			questions.GET("/:id", hm.questionHandler.GetQuestion)

			admin := questions.Group("", AdminMiddleware())
			{
				admin.POST("", hm.questionHandler.CreateQuestion)
				admin.PATCH("/:id", hm.questionHandler.UpdateQuestion)
				admin.PUT("/:id", hm.questionHandler.UpdateQuestion)
				admin.DELETE("/:id", hm.questionHandler.DeleteQuestion)
				admin.GET("/export", hm.questionHandler.ExportQuestions)
				admin.POST("/import", hm.questionHandler.ImportQuestions)
			}
		}
	}
}
