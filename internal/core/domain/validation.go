package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Violation is a single reason a user record cannot be persisted.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Violations aggregates every rule a record breaks. It is an error that
// matches ErrValidation with errors.Is.
type Violations []Violation

func (v Violations) Error() string {
	msgs := make([]string, 0, len(v))
	for _, violation := range v {
		msgs = append(msgs, violation.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v Violations) Unwrap() error { return ErrValidation }

var userValidator = newUserValidator()

func newUserValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return Role(fl.Field().String()).Valid()
	})
	return v
}

// ValidateUser checks u before it is written and returns every violation
// found, or nil. Fields are checked after trimming. Email format is not
// checked. isNew additionally requires a password hash.
func ValidateUser(u *User, isNew bool) Violations {
	candidate := *u
	candidate.normalize()

	var out Violations
	if err := userValidator.Struct(&candidate); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Violations{{Field: "user", Message: err.Error()}}
		}
		for _, fe := range fieldErrs {
			out = append(out, toViolation(fe))
		}
	}

	if isNew && strings.TrimSpace(candidate.HashedPassword) == "" {
		out = append(out, Violation{Field: "password", Message: "invalid password"})
	}
	return out
}

func toViolation(fe validator.FieldError) Violation {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return Violation{Field: field, Message: field + " cannot be blank"}
	case "role":
		return Violation{Field: field, Message: field + " must be one of: User, Developer, Admin"}
	default:
		return Violation{Field: field, Message: field + " is invalid"}
	}
}
