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

var (
	subdomainRegex  = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$`)
	featureKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

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

type TenantValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewTenantValidator(log *logger.Logger) *TenantValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("subdomain", func(fl validator.FieldLevel) bool {
		return subdomainRegex.MatchString(fl.Field().String())
	}); err != nil {
		log.Fatal("Failed to register 'subdomain' validator", "error", err)
	}

	log.Info("Tenant validator initialized successfully")

	return &TenantValidator{
		validate: v,
		logger:   log,
	}
}

func (v *TenantValidator) ValidateCreate(req *model.TenantCreate) error {
	return v.structErrors(req)
}

func (v *TenantValidator) ValidateModuleUpdate(req *model.TenantModuleUpdate) error {
	if err := v.structErrors(req); err != nil {
		return err
	}

	var errs ValidationErrors
	for key := range req.FeatureToggles {
		if !featureKeyRegex.MatchString(key) {
			errs = append(errs, ValidationError{
				Field:   "feature_toggles." + key,
				Message: "feature names must be lowercase snake_case",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *TenantValidator) structErrors(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()
		field := err.Field()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "subdomain":
			message = fmt.Sprintf("%s may contain only lowercase letters, digits and inner hyphens", field)
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   field,
			Message: message,
		})
	}

	return validationErrors
}
