package core

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"fangindex/internal/types"
)

// Validator wraps go-playground/validator with the domain tags used by the
// request structs.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a Validator. Field names in error details use the
// json tag so clients see the names they sent.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("water_type", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || types.ParseWaterType(s) != types.WaterTypeUnknown
	})

	return &Validator{validate: v, logger: logger}
}

// ValidateStruct validates s and converts failures into a
// validation_invalid_request error whose details map each field to the
// failed rule.
func (v *Validator) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if v.logger != nil {
			v.logger.Error("validator misuse", "error", err)
		}
		return types.NewAppError(types.ErrCodeInternalUnexpected, "request validation failed", err)
	}

	fields := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		fields[fieldPath(fe)] = rule
	}

	return types.NewAppErrorWithDetails(
		types.ErrCodeValidationInvalidRequest,
		"request validation failed",
		err,
		map[string]any{"fields": fields},
	)
}

// fieldPath strips the root struct name from the namespace, e.g.
// "rankRequest.candidates[0].lat" becomes "candidates[0].lat".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
