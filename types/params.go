package types

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type Validater interface {
	Validate() map[string]string
}

type AnalysisParams struct {
	Model     string `form:"model" validate:"required"`
	Prompt    string `form:"prompt" validate:"required"`
	SessionID string `form:"session_id"`
}

type ResetParams struct {
	SessionID string `form:"session_id" validate:"required"`
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

func (params *AnalysisParams) Validate() map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

func (params *ResetParams) Validate() map[string]string {
	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

func NewValidationError(errors map[string]string) ValidationError {
	return ValidationError{
		Status: http.StatusUnprocessableEntity,
		Errors: errors,
	}
}

type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

type AnalysisResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type ResetResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
