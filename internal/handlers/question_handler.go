package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/SAP-F-2025/practice-service/internal/services"
	"github.com/SAP-F-2025/practice-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	defaultListLimit   = 100
	defaultTopicLimit  = 10
	defaultRandomLimit = 10
	maxRandomLimit     = 100

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type QuestionHandler struct {
	BaseHandler
	questionService     services.QuestionService
	importExportService services.ImportExportService
}

func NewQuestionHandler(
	questionService services.QuestionService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:         NewBaseHandler(logger),
		questionService:     questionService,
		importExportService: importExportService,
	}
}

// ListQuestions returns questions in id order
// GET /questions?skip=&limit=&topic=
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	skip, ok := parseIntQuery(c, "skip", 0, 0, -1)
	if !ok {
		return
	}
	limit, ok := parseIntQuery(c, "limit", defaultListLimit, 0, -1)
	if !ok {
		return
	}

	questions, err := h.questionService.List(c.Request.Context(), repositories.QuestionFilters{
		Topic:  optionalQuery(c, "topic"),
		Offset: skip,
		Limit:  limit,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// GetQuestionsByTopic
// GET /questions/topic/:topic?limit=
func (h *QuestionHandler) GetQuestionsByTopic(c *gin.Context) {
	topic, ok := parseStringParam(c, "topic")
	if !ok {
		return
	}
	limit, ok := parseIntQuery(c, "limit", defaultTopicLimit, 0, -1)
	if !ok {
		return
	}

	questions, err := h.questionService.ListByTopic(c.Request.Context(), topic, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// GetRandomQuestions samples without replacement, optionally within a topic
// GET /questions/random?limit=&topic=
func (h *QuestionHandler) GetRandomQuestions(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", defaultRandomLimit, 1, maxRandomLimit)
	if !ok {
		return
	}

	questions, err := h.questionService.GetRandom(c.Request.Context(), repositories.RandomQuestionFilters{
		Topic: optionalQuery(c, "topic"),
		Count: limit,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// GetQuestion
// GET /questions/:id
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	question, err := h.questionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// CreateQuestion
// POST /questions
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), &req, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion applies a partial update; PUT and PATCH behave the same
// PATCH /questions/:id
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Updating question", "question_id", id)

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, &req, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion reports whether a question was removed
// DELETE /questions/:id
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Deleting question", "question_id", id)

	deleted, err := h.questionService.Delete(c.Request.Context(), id, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.DeleteQuestionResponse{Deleted: deleted})
}

// ExportQuestions streams the question bank as CSV or XLSX
// GET /questions/export?format=csv|xlsx&topic=
func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	filters := repositories.QuestionFilters{Topic: optionalQuery(c, "topic")}
	stamp := time.Now().UTC().Format("20060102-150405")

	var (
		data        []byte
		err         error
		contentType string
		filename    string
	)
	switch format := c.DefaultQuery("format", "csv"); format {
	case "csv":
		data, err = h.importExportService.ExportQuestionsToCSV(c.Request.Context(), filters)
		contentType = "text/csv; charset=utf-8"
		filename = fmt.Sprintf("questions-%s.csv", stamp)
	case "xlsx":
		data, err = h.importExportService.ExportQuestionsToExcel(c.Request.Context(), filters)
		contentType = xlsxContentType
		filename = fmt.Sprintf("questions-%s.xlsx", stamp)
	default:
		h.RespondWithError(c, http.StatusBadRequest, "Unsupported export format", format)
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// ImportQuestions loads questions from an uploaded CSV or XLSX file
// POST /questions/import (multipart field "file")
func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "File is required", err.Error())
		return
	}

	h.LogRequest(c, "Importing questions", "filename", fileHeader.Filename, "size", fileHeader.Size)

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Could not read uploaded file", err.Error())
		return
	}
	defer file.Close()

	result, err := h.importExportService.ImportQuestions(c.Request.Context(), file, fileHeader.Filename, getUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
