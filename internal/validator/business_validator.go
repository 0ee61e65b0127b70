package validator

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aithenode/booking-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	// Report field names as the caller sent them (json tag), not the Go
	// struct field name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return toSnakeCase(fld.Name)
		}
		return name
	})

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateSessionCreate validates booking request business rules on top of
// the struct tags.
func (bv *BusinessValidator) ValidateSessionCreate(req *SessionCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if !req.StartTime.IsZero() && !req.EndTime.IsZero() && !req.EndTime.After(req.StartTime) {
		errors = append(errors, ValidationError{
			Field:   "end_time",
			Message: "must be after start time",
			Value:   req.EndTime,
			Rule:    "end_after_start",
		})
	}

	return errors
}

// ValidateReviewCreate validates review submission business rules.
func (bv *BusinessValidator) ValidateReviewCreate(req *ReviewCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Comment != nil && strings.TrimSpace(*req.Comment) == "" {
		errors = append(errors, ValidationError{
			Field:   "comment",
			Message: "cannot be blank when provided",
			Value:   *req.Comment,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Account role validation
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})

	// Start time validation (must be in future; optional fields pass when nil)
	bv.validate.RegisterValidation("future_date", func(fl validator.FieldLevel) bool {
		field := fl.Field()

		if field.Kind() == reflect.Ptr && field.IsNil() {
			return true
		}

		var ts time.Time
		if field.Kind() == reflect.Ptr {
			ts = field.Elem().Interface().(time.Time)
		} else {
			ts = field.Interface().(time.Time)
		}

		return ts.After(time.Now())
	})
}
