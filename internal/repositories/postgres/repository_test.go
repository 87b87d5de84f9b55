package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/repositories"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestSubmissionPostgreSQL_GetStatsByUser(t *testing.T) {
	statsQuery := regexp.QuoteMeta(`COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS correct FROM "submissions" WHERE user_id = $1`)

	tests := []struct {
		name    string
		total   int64
		correct int64
	}{
		{"no submissions", 0, 0},
		{"mixed results", 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery(statsQuery).
				WithArgs("user-1").
				WillReturnRows(sqlmock.NewRows([]string{"total", "correct"}).AddRow(tt.total, tt.correct))

			stats, err := NewSubmissionPostgreSQL(db).GetStatsByUser(context.Background(), "user-1")
			require.NoError(t, err)
			assert.Equal(t, &repositories.SubmissionStats{Total: tt.total, Correct: tt.correct}, stats)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestQuestionPostgreSQL_Update(t *testing.T) {
	updateQuery := `UPDATE "questions" SET .* WHERE .*"id" = \$\d+`

	question := func() *models.Question {
		return &models.Question{
			ID:         7,
			Type:       models.ShortAnswer,
			Topic:      "newtopic",
			Stem:       "1 + 1 = ?",
			Answer:     "2",
			Difficulty: models.DifficultyMedium,
		}
	}

	t.Run("writes the row", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(updateQuery).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, NewQuestionPostgreSQL(db).Update(context.Background(), question()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(updateQuery).WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewQuestionPostgreSQL(db).Update(context.Background(), question())
		assert.ErrorIs(t, err, repositories.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuestionPostgreSQL_Delete(t *testing.T) {
	deleteQuery := regexp.QuoteMeta(`DELETE FROM "questions" WHERE "questions"."id" = $1`)

	t.Run("removed", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(deleteQuery).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))

		deleted, err := NewQuestionPostgreSQL(db).Delete(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing id", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(deleteQuery).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 0))

		deleted, err := NewQuestionPostgreSQL(db).Delete(context.Background(), 7)
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("referenced by submissions", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(deleteQuery).WithArgs(7).WillReturnError(&pgconn.PgError{
			Code:           "23503",
			Message:        `update or delete on table "questions" violates foreign key constraint`,
			ConstraintName: "fk_submissions_question",
		})

		deleted, err := NewQuestionPostgreSQL(db).Delete(context.Background(), 7)
		assert.ErrorIs(t, err, repositories.ErrReferenced)
		assert.False(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestQuestionPostgreSQL_GetRandom(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "type", "topic", "stem", "options", "answer", "difficulty", "created_at", "updated_at"}).
		AddRow(2, "mcq", "algebra", "2x = 4, x = ?", []byte(`["1","2"]`), "2", "easy", now, now).
		AddRow(1, "short_answer", "algebra", "x + 1 = 2, x = ?", []byte(`null`), "1", "medium", now, now)
	mock.ExpectQuery(`SELECT \* FROM "questions" WHERE topic = \$1 ORDER BY RANDOM\(\) LIMIT`).
		WillReturnRows(rows)

	topic := "algebra"
	questions, err := NewQuestionPostgreSQL(db).GetRandom(context.Background(), repositories.RandomQuestionFilters{Topic: &topic, Count: 2})
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, uint(2), questions[0].ID)
	assert.Equal(t, []string{"1", "2"}, []string(questions[0].Options))
	assert.Empty(t, questions[1].Options)
	assert.NoError(t, mock.ExpectationsWereMet())
}
