package validators

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator adapts go-playground/validator to echo.Validator
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a CustomValidator
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate checks i against its validate tags and returns a 400 describing the first failures
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return echo.NewHTTPError(http.StatusBadRequest, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s must contain only letters and digits", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
