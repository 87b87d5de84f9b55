package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/SAP-F-2025/practice-service/internal/services"
	"github.com/SAP-F-2025/practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	BaseHandler
	gradingService services.GradingService
	statsService   services.StatsService
}

func NewSubmissionHandler(
	gradingService services.GradingService,
	statsService services.StatsService,
	logger utils.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:    NewBaseHandler(logger),
		gradingService: gradingService,
		statsService:   statsService,
	}
}

// SubmitAnswer grades and records one answer for the caller
// POST /submissions
func (h *SubmissionHandler) SubmitAnswer(c *gin.Context) {
	var req services.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	h.LogRequest(c, "Submitting answer", "question_id", req.QuestionID)

	submission, err := h.gradingService.Submit(c.Request.Context(), getUserID(c), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// ListSubmissions returns the caller's own submissions in id order
// GET /submissions?skip=&limit=
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	skip, ok := parseIntQuery(c, "skip", 0, 0, -1)
	if !ok {
		return
	}
	limit, ok := parseIntQuery(c, "limit", defaultListLimit, 0, -1)
	if !ok {
		return
	}

	submissions, err := h.statsService.ListSubmissions(c.Request.Context(), getUserID(c), repositories.SubmissionFilters{
		Offset: skip,
		Limit:  limit,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submissions)
}

// GetStats
// GET /submissions/stats
func (h *SubmissionHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context(), getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
