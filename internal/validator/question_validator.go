package validator

import (
	"fmt"

	apperrors "github.com/mindcanvas/mindcanvas-service/internal/errors"
	"github.com/mindcanvas/mindcanvas-service/internal/models"
)

// QuestionValidator checks an answer against the question it is recorded for
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateSelection checks a selection against the question type and its
// options. question.Options must be loaded.
func (v *QuestionValidator) ValidateSelection(question *models.Question, optionIDs []uint) error {
	var errs ValidationErrors

	switch question.Type {
	case models.QuestionInfo:
		errs = append(errs, *apperrors.NewValidationErrorWithRule("question_id",
			"informational questions do not accept answers", "question_type", question.ID))
		return errs
	case models.QuestionSingle:
		if len(optionIDs) != 1 {
			errs = append(errs, *apperrors.NewValidationErrorWithRule("option_ids",
				"must select exactly one option", "single_choice", optionIDs))
		}
	}

	belongs := make(map[uint]struct{}, len(question.Options))
	for _, opt := range question.Options {
		belongs[opt.ID] = struct{}{}
	}

	seen := make(map[uint]struct{}, len(optionIDs))
	for _, id := range optionIDs {
		if _, ok := seen[id]; ok {
			errs = append(errs, *apperrors.NewValidationErrorWithRule("option_ids",
				fmt.Sprintf("option %d selected more than once", id), "unique", id))
			continue
		}
		seen[id] = struct{}{}

		if _, ok := belongs[id]; !ok {
			errs = append(errs, *apperrors.NewValidationErrorWithRule("option_ids",
				fmt.Sprintf("option %d does not belong to question %d", id, question.ID), "option_belongs", id))
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateNewOption rejects options on informational questions
func (v *QuestionValidator) ValidateNewOption(question *models.Question) error {
	if question.Type == models.QuestionInfo {
		return ValidationErrors{*apperrors.NewValidationErrorWithRule("question_id",
			"informational questions cannot have options", "question_type", question.ID)}
	}
	return nil
}
