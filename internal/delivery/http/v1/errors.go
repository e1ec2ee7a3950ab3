package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/adanyl0v/go-goal-tracker/internal/services"
)

var (
	errInvalidRequestBody      = errors.New("invalid request body")
	errMandatoryCookieNotFound = errors.New("mandatory cookie not found")
	errNotFound                = errors.New("not found")
	errValidationFailed        = errors.New("validation failed")
)

type apiError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	body := gin.H{"error": err.Message}
	if len(err.Fields) > 0 {
		body["fields"] = err.Fields
	}
	c.AbortWithStatusJSON(err.Code, body)
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError() apiError {
	return newAPIError(http.StatusNotFound, errNotFound.Error())
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

func newValidationError(fields map[string]string) apiError {
	err := newBadRequestError(errValidationFailed.Error())
	err.Fields = fields
	return err
}

// abortWithServiceError renders errors returned by the resource services.
func (h *handlerImpl) abortWithServiceError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
	case errors.Is(err, services.ErrNotFound):
		abort(c, newNotFoundError())
	case errors.As(err, &ve):
		abort(c, newValidationError(ve.Fields))
	default:
		h.logger.Error().
			Err(err).
			Str("path", c.FullPath()).
			Msg("request failed")
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}

var registerValidatorHooksOnce sync.Once

// registerValidatorHooks makes validator report fields by their json
// names and look through optional request fields.
func registerValidatorHooks() {
	registerValidatorHooksOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		registerOptionalTypes(v)
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

// bindJSON decodes and validates the request body. On failure it aborts
// the request with a field-level validation error and returns false.
func (h *handlerImpl) bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	h.logger.Warn().
		Err(err).
		Str("path", c.FullPath()).
		Msg("failed to bind json")

	var (
		validationErrs validator.ValidationErrors
		typeErr        *json.UnmarshalTypeError
		syntaxErr      *json.SyntaxError
	)
	switch {
	case errors.As(err, &validationErrs):
		fields := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			fields[fe.Field()] = describeFieldError(fe)
		}
		abort(c, newValidationError(fields))
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "non_field_errors"
		}
		abort(c, newValidationError(map[string]string{
			field: fmt.Sprintf("expected %s, got %s", typeErr.Type.String(), typeErr.Value),
		}))
	case errors.As(err, &syntaxErr):
		abort(c, newValidationError(map[string]string{
			"non_field_errors": fmt.Sprintf("malformed json at offset %d", syntaxErr.Offset),
		}))
	default:
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
	}
	return false
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice", fmt.Sprint(fe.Value()))
	case "datetime":
		return "date has wrong format, use YYYY-MM-DD"
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}
