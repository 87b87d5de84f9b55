package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/practice-service/internal/cache"
	"github.com/SAP-F-2025/practice-service/internal/events"
	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/SAP-F-2025/practice-service/internal/repositories/memory"
	"github.com/SAP-F-2025/practice-service/internal/validator"
	"github.com/jinzhu/copier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestQuestionService(repo repositories.Repository, c cache.CacheService) (QuestionService, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(testLogger())
	return NewQuestionService(repo, c, publisher, testLogger(), validator.New(), time.Minute), publisher
}

func algebraMCQ() *CreateQuestionRequest {
	return &CreateQuestionRequest{
		Type:       models.MultipleChoice,
		Topic:      "algebra",
		Stem:       "2x + 3 = 7, x = ?",
		Options:    []string{"1", "2", "3", "4"},
		Answer:     "2",
		Difficulty: models.DifficultyEasy,
	}
}

func TestQuestionService_Create(t *testing.T) {
	tests := []struct {
		name        string
		request     *CreateQuestionRequest
		expectError bool
		errorField  string
	}{
		{
			name:    "valid multiple choice",
			request: algebraMCQ(),
		},
		{
			name: "valid short answer",
			request: &CreateQuestionRequest{
				Type:   models.ShortAnswer,
				Topic:  "geometry",
				Stem:   "Area of a circle with radius 3?",
				Answer: "28.27",
			},
		},
		{
			name: "answer not among options",
			request: &CreateQuestionRequest{
				Type:    models.MultipleChoice,
				Topic:   "algebra",
				Stem:    "1 + 1 = ?",
				Options: []string{"1", "3"},
				Answer:  "2",
			},
			expectError: true,
			errorField:  "answer",
		},
		{
			name: "multiple choice without options",
			request: &CreateQuestionRequest{
				Type:   models.MultipleChoice,
				Topic:  "algebra",
				Stem:   "1 + 1 = ?",
				Answer: "2",
			},
			expectError: true,
			errorField:  "options",
		},
		{
			name: "short answer with options",
			request: &CreateQuestionRequest{
				Type:    models.ShortAnswer,
				Topic:   "algebra",
				Stem:    "1 + 1 = ?",
				Options: []string{"2"},
				Answer:  "2",
			},
			expectError: true,
			errorField:  "options",
		},
		{
			name: "unknown type",
			request: &CreateQuestionRequest{
				Type:   "essay",
				Topic:  "algebra",
				Stem:   "Explain.",
				Answer: "x",
			},
			expectError: true,
			errorField:  "type",
		},
		{
			name: "bad difficulty",
			request: &CreateQuestionRequest{
				Type:       models.ShortAnswer,
				Topic:      "algebra",
				Stem:       "1 + 1 = ?",
				Answer:     "2",
				Difficulty: "extreme",
			},
			expectError: true,
			errorField:  "difficulty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewRepository()
			service, publisher := newTestQuestionService(repo, cache.NewNoopCache())

			resp, err := service.Create(context.Background(), tt.request, "admin-1")

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, resp)
				assert.True(t, IsValidation(err))

				var ve ValidationErrors
				require.True(t, errors.As(err, &ve))
				fields := make([]string, 0, len(ve))
				for _, e := range ve {
					fields = append(fields, e.Field)
				}
				assert.Contains(t, fields, tt.errorField)

				count, _ := repo.Question().Count(context.Background())
				assert.Zero(t, count)
				assert.Empty(t, publisher.GetPublishedEvents())
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.NotZero(t, resp.ID)
			assert.Equal(t, tt.request.Type, resp.Type)
			assert.Equal(t, tt.request.Topic, resp.Topic)

			published := publisher.GetPublishedEvents()
			require.Len(t, published, 1)
			assert.Equal(t, events.EventQuestionCreated, published[0].Type)
		})
	}
}

func TestQuestionService_CreateDefaults(t *testing.T) {
	service, _ := newTestQuestionService(memory.NewRepository(), cache.NewNoopCache())

	resp, err := service.Create(context.Background(), &CreateQuestionRequest{
		Type:    models.ShortAnswer,
		Topic:   "geometry",
		Stem:    "Area?",
		Options: []string{},
		Answer:  "28.27",
	}, "admin-1")
	require.NoError(t, err)

	assert.Equal(t, models.DifficultyMedium, resp.Difficulty)
	assert.Empty(t, resp.Options)
}

func TestQuestionService_GetByID_NotFound(t *testing.T) {
	mockQuestions := &MockQuestionRepository{}
	mockQuestions.On("GetByID", mock.Anything, uint(42)).Return(nil, nil)

	service, _ := newTestQuestionService(&MockRepository{questionRepo: mockQuestions}, cache.NewNoopCache())

	resp, err := service.GetByID(context.Background(), 42)

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
	assert.True(t, IsNotFound(err))
	mockQuestions.AssertExpectations(t)
}

func TestQuestionService_GetByID_RepositoryError(t *testing.T) {
	mockQuestions := &MockQuestionRepository{}
	mockQuestions.On("GetByID", mock.Anything, uint(7)).Return(nil, errors.New("connection reset"))

	service, _ := newTestQuestionService(&MockRepository{questionRepo: mockQuestions}, cache.NewNoopCache())

	_, err := service.GetByID(context.Background(), 7)

	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestQuestionService_GetByID_ReadsThroughCache(t *testing.T) {
	stored := &models.Question{
		ID:         3,
		Type:       models.MultipleChoice,
		Topic:      "algebra",
		Stem:       "3x - 5 = 16, x = ?",
		Options:    []string{"5", "6", "7", "8"},
		Answer:     "7",
		Difficulty: models.DifficultyEasy,
	}
	mockQuestions := &MockQuestionRepository{}
	mockQuestions.On("GetByID", mock.Anything, uint(3)).Return(stored, nil).Once()

	c := newMapCache()
	service, _ := newTestQuestionService(&MockRepository{questionRepo: mockQuestions}, c)

	first, err := service.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, c.has(cache.QuestionKey(3)))

	second, err := service.GetByID(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, first.Stem, second.Stem)
	assert.Equal(t, []string{"5", "6", "7", "8"}, second.Options)
	mockQuestions.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestQuestionService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update changes only the given field", func(t *testing.T) {
		service, publisher := newTestQuestionService(memory.NewRepository(), cache.NewNoopCache())
		created, err := service.Create(ctx, algebraMCQ(), "admin-1")
		require.NoError(t, err)

		updated, err := service.Update(ctx, created.ID, &UpdateQuestionRequest{Topic: stringPtr("linear equations")}, "admin-1")
		require.NoError(t, err)

		assert.Equal(t, "linear equations", updated.Topic)
		assert.Equal(t, created.Type, updated.Type)
		assert.Equal(t, created.Stem, updated.Stem)
		assert.Equal(t, created.Options, updated.Options)
		assert.Equal(t, created.Answer, updated.Answer)
		assert.Equal(t, created.Difficulty, updated.Difficulty)

		fetched, err := service.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "linear equations", fetched.Topic)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 2)
		assert.Equal(t, events.EventQuestionUpdated, published[1].Type)
	})

	t.Run("switching to short answer drops options", func(t *testing.T) {
		service, _ := newTestQuestionService(memory.NewRepository(), cache.NewNoopCache())
		created, err := service.Create(ctx, algebraMCQ(), "admin-1")
		require.NoError(t, err)

		shortAnswer := models.ShortAnswer
		updated, err := service.Update(ctx, created.ID, &UpdateQuestionRequest{Type: &shortAnswer}, "admin-1")
		require.NoError(t, err)

		assert.Equal(t, models.ShortAnswer, updated.Type)
		assert.Empty(t, updated.Options)
	})

	t.Run("update that breaks the answer rule is rejected", func(t *testing.T) {
		service, _ := newTestQuestionService(memory.NewRepository(), cache.NewNoopCache())
		created, err := service.Create(ctx, algebraMCQ(), "admin-1")
		require.NoError(t, err)

		_, err = service.Update(ctx, created.ID, &UpdateQuestionRequest{Answer: stringPtr("9")}, "admin-1")
		assert.True(t, IsValidation(err))

		fetched, err := service.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "2", fetched.Answer)
	})

	t.Run("unknown id", func(t *testing.T) {
		service, _ := newTestQuestionService(memory.NewRepository(), cache.NewNoopCache())

		_, err := service.Update(ctx, 999, &UpdateQuestionRequest{Topic: stringPtr("x")}, "admin-1")
		assert.ErrorIs(t, err, ErrQuestionNotFound)
	})

	t.Run("invalidates cached copy", func(t *testing.T) {
		c := newMapCache()
		service, _ := newTestQuestionService(memory.NewRepository(), c)
		created, err := service.Create(ctx, algebraMCQ(), "admin-1")
		require.NoError(t, err)

		_, err = service.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, c.has(cache.QuestionKey(created.ID)))

		_, err = service.Update(ctx, created.ID, &UpdateQuestionRequest{Stem: stringPtr("new stem")}, "admin-1")
		require.NoError(t, err)
		assert.False(t, c.has(cache.QuestionKey(created.ID)))

		fetched, err := service.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "new stem", fetched.Stem)
	})
}

func TestQuestionService_Delete(t *testing.T) {
	ctx := context.Background()
	service, publisher := newTestQuestionService(memory.NewRepository(), cache.NewNoopCache())

	created, err := service.Create(ctx, algebraMCQ(), "admin-1")
	require.NoError(t, err)
	publisher.ClearEvents()

	deleted, err := service.Delete(ctx, created.ID, "admin-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = service.Delete(ctx, created.ID, "admin-1")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = service.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventQuestionDeleted, published[0].Type)
}

func TestQuestionService_DeleteKeepsSubmissionHistory(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository()
	service, publisher := newTestQuestionService(repo, cache.NewNoopCache())
	grading := NewGradingService(repo, publisher, testLogger(), validator.New())

	created, err := service.Create(ctx, algebraMCQ(), "admin-1")
	require.NoError(t, err)
	for _, answer := range []string{"2", "2", "4"} {
		_, err := grading.Submit(ctx, "user-1", &SubmitAnswerRequest{QuestionID: created.ID, UserAnswer: stringPtr(answer)})
		require.NoError(t, err)
	}
	publisher.ClearEvents()

	deleted, err := service.Delete(ctx, created.ID, "admin-1")
	assert.ErrorIs(t, err, ErrQuestionInUse)
	assert.True(t, IsConflict(err))
	assert.False(t, deleted)
	assert.Empty(t, publisher.GetPublishedEvents())

	_, err = service.GetByID(ctx, created.ID)
	assert.NoError(t, err)

	stats, err := repo.Submission().GetStatsByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Correct)
}

func TestToQuestionResponse_CopyError(t *testing.T) {
	resp, err := toQuestionResponse(nil)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, copier.ErrInvalidCopyFrom)

	_, err = toQuestionResponses([]*models.Question{nil})
	assert.Error(t, err)
}

func TestQuestionService_Queries(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestQuestionService(memory.NewRepository(), cache.NewNoopCache())

	for i, topic := range []string{"algebra", "geometry", "algebra", "geometry", "algebra"} {
		_, err := service.Create(ctx, &CreateQuestionRequest{
			Type:   models.ShortAnswer,
			Topic:  topic,
			Stem:   "question " + string(rune('A'+i)),
			Answer: "x",
		}, "admin-1")
		require.NoError(t, err)
	}

	t.Run("list pages in id order", func(t *testing.T) {
		page, err := service.List(ctx, repositories.QuestionFilters{Offset: 1, Limit: 2})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "question B", page[0].Stem)
		assert.Equal(t, "question C", page[1].Stem)
	})

	t.Run("list by topic", func(t *testing.T) {
		geometry, err := service.ListByTopic(ctx, "geometry", 10)
		require.NoError(t, err)
		assert.Len(t, geometry, 2)

		none, err := service.ListByTopic(ctx, "calculus", 10)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("random respects topic and count", func(t *testing.T) {
		topic := "algebra"
		random, err := service.GetRandom(ctx, repositories.RandomQuestionFilters{Topic: &topic, Count: 5})
		require.NoError(t, err)
		require.Len(t, random, 3)
		for _, q := range random {
			assert.Equal(t, "algebra", q.Topic)
		}

		two, err := service.GetRandom(ctx, repositories.RandomQuestionFilters{Count: 2})
		require.NoError(t, err)
		assert.Len(t, two, 2)
	})
}
