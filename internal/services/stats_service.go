package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/shopspring/decimal"
)

type statsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewStatsService(repo repositories.Repository, logger *slog.Logger) StatsService {
	return &statsService{
		repo:   repo,
		logger: logger,
	}
}

func (s *statsService) GetStats(ctx context.Context, userID string) (*UserStats, error) {
	stats, err := s.repo.Submission().GetStatsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission stats: %w", err)
	}

	return &UserStats{
		TotalQuestions: stats.Total,
		CorrectAnswers: stats.Correct,
		Accuracy:       CalculateAccuracy(stats.Correct, stats.Total),
	}, nil
}

func (s *statsService) ListSubmissions(ctx context.Context, userID string, filters repositories.SubmissionFilters) ([]*SubmissionResponse, error) {
	submissions, err := s.repo.Submission().ListByUser(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	responses := make([]*SubmissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		responses = append(responses, toSubmissionResponse(sub))
	}
	return responses, nil
}

// CalculateAccuracy returns correct/total as a percentage rounded half up to
// two decimals, or 0 when total is 0.
func CalculateAccuracy(correct, total int64) float64 {
	if total == 0 {
		return 0
	}
	return decimal.NewFromInt(correct).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(total)).
		Round(2).
		InexactFloat64()
}
