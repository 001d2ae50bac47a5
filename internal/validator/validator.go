package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/mindcanvas/mindcanvas-service/internal/errors"
	"github.com/mindcanvas/mindcanvas-service/internal/models"
	"github.com/mindcanvas/mindcanvas-service/internal/scoring"
)

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

func ToValidationErrors(err error) ValidationErrors {
	return apperrors.ToValidationErrors(err)
}

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator:   structValidator,
		questionValidator: NewQuestionValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and returns the shared ValidationErrors type
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Question returns the question validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_type", validateQuestionType)
	validate.RegisterValidation("flow_code", validateFlowCode)
	validate.RegisterValidation("profile_code", validateProfileCode)
	validate.RegisterValidation("points_range", validatePointsRange)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateQuestionType(fl validator.FieldLevel) bool {
	switch models.QuestionType(fl.Field().String()) {
	case models.QuestionSingle, models.QuestionMulti, models.QuestionInfo:
		return true
	}
	return false
}

func validateFlowCode(fl validator.FieldLevel) bool {
	return scoring.IsValidFlowCode(fl.Field().String())
}

func validateProfileCode(fl validator.FieldLevel) bool {
	return scoring.IsValidProfileCode(fl.Field().String())
}

func validatePointsRange(fl validator.FieldLevel) bool {
	points := fl.Field().Int()
	return points >= 0 && points <= 100
}
