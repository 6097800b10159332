package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"spacehub/pkg/logger"
	"spacehub/pkg/model"

	"github.com/go-playground/validator/v10"
)

// "24:00" is allowed so a window can run to the end of the day.
var clockRegex = regexp.MustCompile(`^(?:[01]\d|2[0-3]):[0-5]\d$|^24:00$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ResourceValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewResourceValidator(log *logger.Logger) *ResourceValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("hhmm", validateClock); err != nil {
		log.Fatal("Failed to register 'hhmm' validator", "error", err)
	}

	log.Info("Resource validator initialized successfully")

	return &ResourceValidator{
		validate: v,
		logger:   log,
	}
}

func validateClock(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}

func (v *ResourceValidator) ValidateCreate(req *model.ResourceCreate) error {
	if err := v.structErrors(req); err != nil {
		return err
	}
	return checkDurationBounds(req.MinBookingDuration, req.MaxBookingDuration)
}

func (v *ResourceValidator) ValidateUpdate(req *model.ResourceUpdate) error {
	return v.structErrors(req)
}

// ValidateResource checks a merged resource, used after applying an update.
func (v *ResourceValidator) ValidateResource(resource *model.Resource) error {
	if err := v.structErrors(resource); err != nil {
		return err
	}
	return checkDurationBounds(resource.MinBookingDuration, resource.MaxBookingDuration)
}

func (v *ResourceValidator) ValidateAvailability(req *model.AvailabilityRequest) error {
	if err := v.structErrors(req); err != nil {
		return err
	}

	var errs ValidationErrors
	for i, slot := range req.Slots {
		if slot.EndTime <= slot.StartTime {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("slots[%d].end_time", i),
				Message: "end_time must be after start_time",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkDurationBounds(minDuration, maxDuration *int) error {
	if minDuration != nil && maxDuration != nil && *minDuration > *maxDuration {
		return ValidationErrors{
			ValidationError{
				Field:   "min_booking_duration",
				Message: fmt.Sprintf("min_booking_duration (%d) must not exceed max_booking_duration (%d)", *minDuration, *maxDuration),
			},
		}
	}
	return nil
}

func (v *ResourceValidator) structErrors(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *ResourceValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()
		field := fieldPath(err)

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be less than or equal to %s", field, err.Param())
		case "hhmm":
			message = fmt.Sprintf("%s must be a time of day in HH:MM format", field)
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return validationErrors
}

func fieldPath(err validator.FieldError) string {
	if _, rest, ok := strings.Cut(err.Namespace(), "."); ok {
		return rest
	}
	return err.Field()
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
