package validator

import (
	"strings"

	"github.com/SAP-F-2025/practice-service/internal/errors"
	"github.com/SAP-F-2025/practice-service/internal/models"
	"github.com/SAP-F-2025/practice-service/internal/utils"
)

// QuestionValidator handles question-specific validation
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateQuestion checks a complete question. Multiple-choice questions need
// at least one option and an answer that matches one of them after
// normalization; short-answer questions must not carry options.
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	var errs ValidationErrors

	if !IsValidQuestionType(question.Type) {
		errs = append(errs, *errors.NewValidationErrorWithRule("type", "must be a valid question type (mcq, short_answer)", "question_type", question.Type))
	}
	if !IsValidDifficulty(question.Difficulty) {
		errs = append(errs, *errors.NewValidationErrorWithRule("difficulty", "must be easy, medium, or hard", "difficulty_level", question.Difficulty))
	}
	if strings.TrimSpace(question.Topic) == "" {
		errs = append(errs, *errors.NewValidationErrorWithRule("topic", "is required", "required", question.Topic))
	}
	if strings.TrimSpace(question.Stem) == "" {
		errs = append(errs, *errors.NewValidationErrorWithRule("stem", "is required", "required", question.Stem))
	}
	if strings.TrimSpace(question.Answer) == "" {
		errs = append(errs, *errors.NewValidationErrorWithRule("answer", "is required", "required", question.Answer))
	}

	switch question.Type {
	case models.MultipleChoice:
		errs = append(errs, v.validateOptions(question)...)
	case models.ShortAnswer:
		if question.HasOptions() {
			errs = append(errs, *errors.NewValidationError("options", "must be empty for short_answer questions", []string(question.Options)))
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateBatch validates multiple questions
func (v *QuestionValidator) ValidateBatch(questions []*models.Question) error {
	if len(questions) == 0 {
		return errors.ValidationErrors{*errors.NewValidationError("questions", "cannot be empty", nil)}
	}

	for _, question := range questions {
		if err := v.ValidateQuestion(question); err != nil {
			return err
		}
	}

	return nil
}

func (v *QuestionValidator) validateOptions(question *models.Question) ValidationErrors {
	if !question.HasOptions() {
		return ValidationErrors{*errors.NewValidationError("options", "must contain at least one option for mcq questions", nil)}
	}

	var errs ValidationErrors
	matched := false
	for _, option := range question.Options {
		if strings.TrimSpace(option) == "" {
			errs = append(errs, *errors.NewValidationError("options", "option text cannot be empty", option))
			continue
		}
		if utils.AnswersMatch(option, question.Answer) {
			matched = true
		}
	}

	if !matched && strings.TrimSpace(question.Answer) != "" {
		errs = append(errs, *errors.NewValidationError("answer", "must match one of the options", question.Answer))
	}
	return errs
}
