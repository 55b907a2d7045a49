package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/wexford-labs/widgetry/internal/models"
	pkghttp "github.com/wexford-labs/widgetry/pkg/http"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bindJSON decodes and validates a request body. On failure it writes the
// error response and returns false.
func bindJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			pkghttp.WriteInternalError(w, "Internal server error")
			return false
		}

		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fieldErrs := make([]pkghttp.FieldError, 0, len(verrs))
			for _, fe := range verrs {
				fieldErrs = append(fieldErrs, pkghttp.FieldError{
					Field:   strings.ToLower(fe.Field()),
					Message: validationMessage(fe),
				})
			}
			pkghttp.WriteFieldErrors(w, http.StatusUnprocessableEntity, fieldErrs)
			return false
		}

		pkghttp.WriteBadRequest(w, "Invalid request body")
		return false
	}

	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "url":
		return "Must be a valid URL"
	default:
		return "Invalid value"
	}
}

// writeServiceError maps service-layer sentinel errors onto HTTP
// responses. Unknown errors are logged and surface as a generic 500.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrTooManyAttempts):
		pkghttp.WriteBadRequest(w, "Too many attempts, please try again later")
	case errors.Is(err, models.ErrInvalidCredentials):
		pkghttp.WriteUnauthorized(w, "Invalid credentials")
	case errors.Is(err, models.ErrInvalidResetToken):
		pkghttp.WriteBadRequest(w, "Invalid token")
	case errors.Is(err, models.ErrEmailDelivery):
		pkghttp.WriteInternalError(w, "Email could not be sent")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteUnprocessable(w, "Duplicate field value entered")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Not authorized to perform this action")
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Not authorized")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, err.Error())
	default:
		logger.Error("unhandled service error", slog.String("error", err.Error()))
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
