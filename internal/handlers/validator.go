package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/iyunix/go-chatnest/internal/domain"
)

const maxJSONBodyBytes = 1 << 20

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

// validationError satisfies domain.ErrValidation and carries a message that
// names the offending fields.
type validationError struct {
	message string
}

func (e *validationError) Error() string         { return e.message }
func (e *validationError) PublicMessage() string { return e.message }
func (e *validationError) Is(target error) bool  { return target == domain.ErrValidation }

// validateRequest checks payload against its `validate` struct tags.
func validateRequest(payload interface{}) error {
	err := getValidator().Struct(payload)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return &validationError{message: "invalid request"}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("field '%s' failed on the '%s' rule", fieldErr.Field(), fieldErr.Tag()))
	}
	return &validationError{message: strings.Join(messages, "; ")}
}

// decodeAndValidate reads a JSON body of bounded size into dst and validates it.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &validationError{message: "request body is required"}
		}
		return &validationError{message: "request body must be valid JSON"}
	}
	return validateRequest(dst)
}
