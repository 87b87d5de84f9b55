package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/practice-service/internal/events"
	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/SAP-F-2025/practice-service/internal/utils"
	"github.com/SAP-F-2025/practice-service/internal/validator"
)

type gradingService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	opLogger  *ServiceLogger
	validator *validator.Validator
}

func NewGradingService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
) GradingService {
	return &gradingService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "grading"),
		validator: validator,
	}
}

// Submit grades the answer against the stored question and records the
// attempt. Nothing is written when the question does not exist.
func (s *gradingService) Submit(ctx context.Context, userID string, req *SubmitAnswerRequest) (resp *SubmissionResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "submit_answer", userID)
	defer func() { op.LogResult(req.QuestionID, "question", err) }()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	var (
		submission *models.Submission
		question   *models.Question
	)
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		q, err := tx.Question().GetByID(ctx, req.QuestionID)
		if err != nil {
			return fmt.Errorf("failed to get question: %w", err)
		}
		if q == nil {
			return ErrQuestionNotFound
		}
		question = q

		submission = &models.Submission{
			UserID:     userID,
			QuestionID: q.ID,
			UserAnswer: *req.UserAnswer,
			IsCorrect:  utils.AnswersMatch(*req.UserAnswer, q.Answer),
			TimeSpent:  req.TimeSpent,
		}
		if err := tx.Submission().Create(ctx, submission); err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := events.NewSubmissionGradedEvent(events.SubmissionGradedEvent{
		SubmissionID: submission.ID,
		UserID:       userID,
		QuestionID:   question.ID,
		Topic:        question.Topic,
		IsCorrect:    submission.IsCorrect,
		TimeSpent:    submission.TimeSpent,
		GradedAt:     submission.CreatedAt,
	})
	if pubErr := s.publisher.Publish(ctx, event); pubErr != nil {
		s.logger.Error("Failed to publish submission event", "submission_id", submission.ID, "error", pubErr)
	}

	return toSubmissionResponse(submission), nil
}

func toSubmissionResponse(submission *models.Submission) *SubmissionResponse {
	return &SubmissionResponse{
		ID:         submission.ID,
		QuestionID: submission.QuestionID,
		UserAnswer: submission.UserAnswer,
		IsCorrect:  submission.IsCorrect,
		TimeSpent:  submission.TimeSpent,
		CreatedAt:  submission.CreatedAt,
	}
}
