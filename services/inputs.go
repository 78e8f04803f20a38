package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type EnrollInput struct {
	UserID   string `validate:"required"`
	CourseID string `validate:"required"`
}

type CompleteModuleInput struct {
	UserID      string `validate:"required"`
	CourseID    string `validate:"required"`
	ModuleIndex int    `validate:"gte=0"`
}

type RecordQuizInput struct {
	UserID      string `validate:"required"`
	CourseID    string `validate:"required"`
	ModuleIndex int    `validate:"gte=0"`
	QuizIndex   int    `validate:"gte=0"`
	Score       int    `validate:"gte=0,ltefield=MaxScore"`
	MaxScore    int    `validate:"gt=0"`
}

// validateInput runs struct validation and folds the failures into one Validation error.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Validation(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return Validation(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}
