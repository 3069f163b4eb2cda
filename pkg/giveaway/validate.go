package giveaway

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9/_-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so issues match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "category", func(fl validator.FieldLevel) bool {
		return isKnown(Categories, fl.Field().String())
	})
	mustRegister(v, "condition", func(fl validator.FieldLevel) bool {
		return isKnown(Conditions, fl.Field().String())
	})
	// keyprefix rejects dots so a prefix can never climb out of its folder
	mustRegister(v, "keyprefix", func(fl validator.FieldLevel) bool {
		return prefixPattern.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// ValidateStruct checks s against its validate tags. Failures are returned
// as a ValidationError "Validation error" whose details list every issue.
func ValidateStruct(s interface{}) error {
	issues, err := fieldIssues(validate.Struct(s), "")
	if err != nil {
		return err
	}
	return issuesError(issues)
}

// ValidateVar checks a single value against tag, reporting problems under field.
func ValidateVar(field string, value interface{}, tag string) error {
	issues, err := fieldIssues(validate.Var(value, tag), field)
	if err != nil {
		return err
	}
	return issuesError(issues)
}

// collect merges the issues of several validation results. Errors that are not
// validation failures are returned as is.
func collect(results ...error) error {
	var issues []Issue
	for _, err := range results {
		if err == nil {
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		if more, ok := ve.Details.([]Issue); ok {
			issues = append(issues, more...)
		}
	}
	return issuesError(issues)
}

func issuesError(issues []Issue) error {
	if len(issues) == 0 {
		return nil
	}
	return NewValidationError("Validation error", issues)
}

func fieldIssues(err error, field string) ([]Issue, error) {
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, fmt.Errorf("validate: %w", err)
	}

	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		path := field
		if ns := fieldPath(fe.Namespace()); ns != "" {
			path = ns
		}
		issues = append(issues, Issue{Field: path, Message: issueMessage(fe)})
	}
	return issues, nil
}

// fieldPath turns "BatchRequest.files[0].size" into "files.0.size"
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return ""
	}
	return strings.NewReplacer("[", ".", "]", "").Replace(rest)
}

func issueMessage(fe validator.FieldError) string {
	kind := fe.Kind()
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min":
		if kind == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if kind == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("Number must be greater than or equal to %s", fe.Param())
	case "max":
		if kind == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if kind == reflect.Slice {
			return fmt.Sprintf("must contain at most %s item(s)", fe.Param())
		}
		return fmt.Sprintf("Number must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Number must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Number must be greater than or equal to %s", fe.Param())
	case "category":
		return "unknown category"
	case "condition":
		return "unknown condition"
	case "keyprefix":
		return "may only contain letters, numbers, '/', '_' and '-'"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
