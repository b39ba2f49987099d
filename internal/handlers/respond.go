// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ammerola/smartstock-be/internal/core/domain"
	"github.com/ammerola/smartstock-be/internal/core/services"
	"github.com/ammerola/smartstock-be/internal/workers"
)

const maxJSONBody = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Validate money fields as numbers
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// responder carries the shared JSON helpers for every handler
type responder struct {
	logger *slog.Logger
}

func (h responder) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h responder) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondValidation reports every failed field
func (h responder) respondValidation(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	h.respondJSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "validation failed",
		"fields": fields,
	})
}

// respondServiceError maps service errors to status codes. Unknown errors
// are logged and reported as 500 with the fallback message.
func (h responder) respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), fallback,
			slog.String("error", err.Error()))
		message = fallback
	}
	h.respondError(w, status, message)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, "Inventory item not found"
	case errors.Is(err, workers.ErrJobNotFound):
		return http.StatusNotFound, "Job not found"
	case errors.Is(err, domain.ErrSKUConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrEmptySelection),
		errors.Is(err, domain.ErrNotReorderCandidate):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidItem),
		errors.Is(err, domain.ErrInvalidPurchaseLine):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInterpretation),
		errors.Is(err, workers.ErrUnreadableFile):
		return http.StatusUnprocessableEntity, err.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}

// decodeJSON decodes a size-limited body into dst and validates it
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return validate.Struct(dst)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "ne":
		return fmt.Sprintf("%s must not be %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
