package order

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	telPattern   = regexp.MustCompile(`^\d{8,10}$`)
)

const (
	FieldEmail   = "email"
	FieldName    = "name"
	FieldTel     = "tel"
	FieldAddress = "address"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field of a Form that failed, in form order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid checkout form: " + strings.Join(parts, "; ")
}

// Message returns the message for field, or "" when it passed.
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Validate returns nil when the form can be submitted.
func (f Form) Validate() *ValidationError {
	var fields []FieldError
	add := func(field, msg string) {
		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	switch {
	case f.Email == "":
		add(FieldEmail, "email is required")
	case !emailPattern.MatchString(f.Email):
		add(FieldEmail, "email format is invalid")
	}

	if f.Name == "" {
		add(FieldName, "name is required")
	}

	switch {
	case f.Tel == "":
		add(FieldTel, "phone number is required")
	case !telPattern.MatchString(f.Tel):
		add(FieldTel, "phone number must be 8 to 10 digits")
	}

	if f.Address == "" {
		add(FieldAddress, "address is required")
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
