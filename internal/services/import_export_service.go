package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	apperrors "github.com/SAP-F-2025/practice-service/internal/errors"
	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/SAP-F-2025/practice-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheetName = "Questions"
	optionSeparator = "|"

	// exportLimit caps a single export when no limit is requested
	exportLimit = 10000
)

// questionColumns is the column layout shared by import and export files.
var questionColumns = []string{"type", "topic", "stem", "options", "answer", "difficulty"}

var requiredColumns = []string{"type", "topic", "stem", "answer"}

type importExportService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportExportService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ImportExportService {
	return &importExportService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== IMPORT OPERATIONS =====

// ImportQuestions picks the parser from the file extension.
func (s *importExportService) ImportQuestions(ctx context.Context, reader io.Reader, filename string, userID string) (*ImportResult, error) {
	s.logger.Info("Starting file import", "filename", filename, "user_id", userID)

	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return s.ImportQuestionsFromCSV(ctx, reader, userID)
	case ".xlsx":
		return s.ImportQuestionsFromExcel(ctx, reader, userID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func (s *importExportService) ImportQuestionsFromCSV(ctx context.Context, reader io.Reader, userID string) (*ImportResult, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, NewValidationError("file", fmt.Sprintf("invalid CSV: %v", err), nil)
	}

	result, err := s.importRows(ctx, records)
	if err != nil {
		return nil, err
	}

	s.logger.Info("CSV import completed",
		"user_id", userID,
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

func (s *importExportService) ImportQuestionsFromExcel(ctx context.Context, reader io.Reader, userID string) (*ImportResult, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, NewValidationError("file", fmt.Sprintf("invalid Excel file: %v", err), nil)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}

	result, err := s.importRows(ctx, rows)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Excel import completed",
		"user_id", userID,
		"total_rows", result.TotalRows,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount)

	return result, nil
}

// importRows parses a header row plus data rows. Valid rows are stored in one
// transaction; invalid rows are reported and skipped.
func (s *importExportService) importRows(ctx context.Context, rows [][]string) (*ImportResult, error) {
	if len(rows) < 2 {
		return nil, NewValidationError("file", "file must have a header row and at least one data row", len(rows))
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredColumns {
		if _, exists := headerMap[col]; !exists {
			return nil, NewValidationError("headers", fmt.Sprintf("missing required column: %s", col), col)
		}
	}

	result := &ImportResult{
		TotalRows: len(rows) - 1,
		Errors:    []models.ImportValidationError{},
	}

	var questions []*models.Question
	for rowIndex, record := range rows[1:] {
		result.ProcessedRows++
		if isBlankRow(record) {
			continue
		}

		question, rowErrors := s.parseRow(record, headerMap, rowIndex+2)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorCount++
			continue
		}
		questions = append(questions, question)
	}

	if len(questions) > 0 {
		err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
			return tx.Question().CreateBatch(ctx, questions)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save questions: %w", err)
		}
	}

	responses, err := toQuestionResponses(questions)
	if err != nil {
		return nil, err
	}
	result.SuccessCount = len(questions)
	result.Questions = responses
	return result, nil
}

func (s *importExportService) parseRow(record []string, headerMap map[string]int, rowNum int) (*models.Question, []models.ImportValidationError) {
	getColumn := func(name string) string {
		if index, exists := headerMap[name]; exists && index < len(record) {
			return strings.TrimSpace(record[index])
		}
		return ""
	}

	question := &models.Question{
		Type:       models.QuestionType(strings.ToLower(getColumn("type"))),
		Topic:      getColumn("topic"),
		Stem:       getColumn("stem"),
		Options:    optionsOf(splitOptions(getColumn("options"))),
		Answer:     getColumn("answer"),
		Difficulty: models.DifficultyLevel(strings.ToLower(getColumn("difficulty"))),
	}
	if question.Difficulty == "" {
		question.Difficulty = models.DifficultyMedium
	}

	err := s.validator.Question().ValidateQuestion(question)
	if err == nil {
		return question, nil
	}

	var validationErrs apperrors.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, []models.ImportValidationError{{Row: rowNum, Message: err.Error()}}
	}

	rowErrors := make([]models.ImportValidationError, 0, len(validationErrs))
	for _, ve := range validationErrs {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row:     rowNum,
			Column:  ve.Field,
			Message: ve.Message,
			Value:   getColumn(ve.Field),
		})
	}
	return nil, rowErrors
}

// ===== EXPORT OPERATIONS =====

func (s *importExportService) ExportQuestionsToCSV(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	questions, err := s.getQuestionsForExport(ctx, filters)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(questionColumns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, question := range questions {
		if err := writer.Write(questionToRow(question)); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *importExportService) ExportQuestionsToExcel(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	questions, err := s.getQuestionsForExport(ctx, filters)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheetName, "A1", &questionColumns); err != nil {
		return nil, fmt.Errorf("failed to write Excel header: %w", err)
	}
	for rowIndex, question := range questions {
		cell, err := excelize.CoordinatesToCellName(1, rowIndex+2)
		if err != nil {
			return nil, err
		}
		row := questionToRow(question)
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write Excel row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}

// ===== HELPER FUNCTIONS =====

func (s *importExportService) getQuestionsForExport(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, error) {
	if filters.Limit <= 0 {
		filters.Limit = exportLimit
	}
	questions, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions for export: %w", err)
	}
	return questions, nil
}

func questionToRow(question *models.Question) []string {
	return []string{
		string(question.Type),
		question.Topic,
		question.Stem,
		strings.Join(question.Options, optionSeparator),
		question.Answer,
		string(question.Difficulty),
	}
}

func splitOptions(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, optionSeparator)
	options := make([]string, 0, len(parts))
	for _, part := range parts {
		options = append(options, strings.TrimSpace(part))
	}
	return options
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
