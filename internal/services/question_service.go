package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/practice-service/internal/cache"
	"github.com/SAP-F-2025/practice-service/internal/events"
	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/SAP-F-2025/practice-service/internal/validator"
	"github.com/jinzhu/copier"
	"gorm.io/datatypes"
)

type questionService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	cacheTTL  time.Duration
}

func NewQuestionService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
	cacheTTL time.Duration,
) QuestionService {
	return &questionService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		cacheTTL:  cacheTTL,
	}
}

// ===== CORE QUESTION OPERATIONS =====

func (s *questionService) Create(ctx context.Context, req *CreateQuestionRequest, userID string) (*QuestionResponse, error) {
	s.logger.Info("Creating question", "type", req.Type, "topic", req.Topic, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question := &models.Question{
		Type:       req.Type,
		Topic:      req.Topic,
		Stem:       req.Stem,
		Options:    optionsOf(req.Options),
		Answer:     req.Answer,
		Difficulty: req.Difficulty,
	}
	if question.Difficulty == "" {
		question.Difficulty = models.DifficultyMedium
	}

	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		return nil, err
	}

	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.publishChange(ctx, events.EventQuestionCreated, question, userID)

	s.logger.Info("Question created", "question_id", question.ID)
	return toQuestionResponse(question)
}

// GetByID reads through the question cache.
func (s *questionService) GetByID(ctx context.Context, id uint) (*QuestionResponse, error) {
	key := cache.QuestionKey(id)

	var cached QuestionResponse
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Question cache read failed", "question_id", id, "error", err)
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	resp, err := toQuestionResponse(question)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
		s.logger.Warn("Question cache write failed", "question_id", id, "error", err)
	}
	return resp, nil
}

// Update applies only the fields present in req. The merged question must
// still satisfy the question rules.
func (s *questionService) Update(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string) (*QuestionResponse, error) {
	s.logger.Info("Updating question", "question_id", id, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	applyQuestionUpdate(question, req)

	if err := s.validator.Question().ValidateQuestion(question); err != nil {
		return nil, err
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	s.invalidate(ctx, id)
	s.publishChange(ctx, events.EventQuestionUpdated, question, userID)

	return toQuestionResponse(question)
}

// Delete reports whether a question was removed. A missing id is not an
// error; a question that already has submissions is kept.
func (s *questionService) Delete(ctx context.Context, id uint, userID string) (bool, error) {
	s.logger.Info("Deleting question", "question_id", id, "user_id", userID)

	deleted, err := s.repo.Question().Delete(ctx, id)
	if errors.Is(err, repositories.ErrReferenced) {
		return false, ErrQuestionInUse
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete question: %w", err)
	}

	if deleted {
		s.invalidate(ctx, id)
		s.publishChange(ctx, events.EventQuestionDeleted, &models.Question{ID: id}, userID)
	}
	return deleted, nil
}

// ===== QUERY OPERATIONS =====

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) ([]*QuestionResponse, error) {
	questions, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return toQuestionResponses(questions)
}

func (s *questionService) ListByTopic(ctx context.Context, topic string, limit int) ([]*QuestionResponse, error) {
	questions, err := s.repo.Question().ListByTopic(ctx, topic, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions by topic: %w", err)
	}
	return toQuestionResponses(questions)
}

func (s *questionService) GetRandom(ctx context.Context, filters repositories.RandomQuestionFilters) ([]*QuestionResponse, error) {
	questions, err := s.repo.Question().GetRandom(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get random questions: %w", err)
	}
	return toQuestionResponses(questions)
}

// ===== HELPERS =====

func applyQuestionUpdate(question *models.Question, req *UpdateQuestionRequest) {
	if req.Type != nil {
		question.Type = *req.Type
		// short answers carry no options unless the caller sends new ones
		if *req.Type == models.ShortAnswer && req.Options == nil {
			question.Options = nil
		}
	}
	if req.Topic != nil {
		question.Topic = *req.Topic
	}
	if req.Stem != nil {
		question.Stem = *req.Stem
	}
	if req.Options != nil {
		question.Options = optionsOf(*req.Options)
	}
	if req.Answer != nil {
		question.Answer = *req.Answer
	}
	if req.Difficulty != nil {
		question.Difficulty = *req.Difficulty
	}
}

func optionsOf(options []string) datatypes.JSONSlice[string] {
	if len(options) == 0 {
		return nil
	}
	return datatypes.JSONSlice[string](options)
}

func (s *questionService) invalidate(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, cache.QuestionKey(id)); err != nil {
		s.logger.Warn("Question cache invalidation failed", "question_id", id, "error", err)
	}
}

func (s *questionService) publishChange(ctx context.Context, eventType events.EventType, question *models.Question, userID string) {
	event := events.NewQuestionChangedEvent(eventType, events.QuestionChangedEvent{
		QuestionID: question.ID,
		Topic:      question.Topic,
		Type:       string(question.Type),
		ChangedBy:  userID,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish question event", "question_id", question.ID, "event_type", eventType, "error", err)
	}
}

func toQuestionResponse(question *models.Question) (*QuestionResponse, error) {
	var resp QuestionResponse
	if err := copier.Copy(&resp, question); err != nil {
		return nil, fmt.Errorf("failed to map question: %w", err)
	}
	return &resp, nil
}

func toQuestionResponses(questions []*models.Question) ([]*QuestionResponse, error) {
	responses := make([]*QuestionResponse, 0, len(questions))
	for _, q := range questions {
		resp, err := toQuestionResponse(q)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
