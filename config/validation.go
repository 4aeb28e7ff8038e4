package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// collectionPattern restricts collection names to plain SQL identifiers since
// the name is interpolated into statements.
var collectionPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("collection", func(fl validator.FieldLevel) bool {
		return collectionPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateCollectionName reports whether name can be used as a collection
func ValidateCollectionName(name string) error {
	if !collectionPattern.MatchString(name) {
		return ValidationError{Field: "Vector.Collection", Message: fmt.Sprintf("%q is not a valid collection name", name)}
	}
	return nil
}

// ValidateConfig checks the configuration and reports every failing field
func ValidateConfig(cfg *Config) error {
	if err := formatErrors("", validate.Struct(cfg)); err != nil {
		return err
	}
	if cfg.RateLimit.Enabled && cfg.Redis.URL == "" {
		return ValidationError{Field: "Redis.URL", Message: "required when rate limiting is enabled"}
	}
	return nil
}

// ValidateDatabase checks only the sections the schema tools need
func ValidateDatabase(cfg *Config) error {
	if err := formatErrors("Database", validate.Struct(cfg.Database)); err != nil {
		return err
	}
	return formatErrors("Vector", validate.Struct(cfg.Vector))
}

// formatErrors joins validator field errors, naming each field from section
func formatErrors(section string, err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if section != "" {
			field = section + "." + field
		}
		msgs = append(msgs, ValidationError{Field: field, Message: describe(fe)}.Error())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("must be %s %s", map[string]string{"gt": ">", "gte": ">="}[fe.Tag()], fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
