package schema

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/ticket-intake/internal/domain"
)

// FieldKind tells the form which input to render.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindEmail    FieldKind = "email"
	FieldKindTextarea FieldKind = "textarea"
)

// Field describes one submission field and its validation rule. The same
// definition drives server-side validation and the browser form.
type Field struct {
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	Kind      FieldKind `json:"kind"`
	Required  bool      `json:"required"`
	MinLength int       `json:"minLength,omitempty"`
	Message   string    `json:"message"`
}

// ValidationError identifies the first violated rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// fields are checked in declaration order; validation reports the first
// violation only.
var fields = []Field{
	{Name: "email", Label: "Email", Kind: FieldKindEmail, Required: true, Message: "Please enter a valid email address"},
	{Name: "clientId", Label: "Client ID", Kind: FieldKindText, Required: true, Message: "Client ID is required"},
	{Name: "subject", Label: "Subject", Kind: FieldKindText, Required: true, Message: "Subject is required"},
	{Name: "message", Label: "Message", Kind: FieldKindTextarea, Required: true, MinLength: 10, Message: "Message must be at least 10 characters"},
}

// Fields returns the submission field list in render order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Validate checks a raw submission record against the schema and produces a
// typed ticket input. Server-only fields such as id and createdAt are ignored
// if present; validation covers the write projection only.
func Validate(raw map[string]any) (domain.TicketInput, *ValidationError) {
	var input domain.TicketInput

	for _, f := range fields {
		value, _ := raw[f.Name].(string)
		if err := validateField(f, value); err != nil {
			return domain.TicketInput{}, err
		}
		switch f.Name {
		case "email":
			input.Email = value
		case "clientId":
			input.ClientID = value
		case "subject":
			input.Subject = value
		case "message":
			input.Message = value
		}
	}
	return input, nil
}

func validateField(f Field, value string) *ValidationError {
	switch f.Kind {
	case FieldKindEmail:
		if !emailPattern.MatchString(value) {
			return &ValidationError{Field: f.Name, Message: f.Message}
		}
	default:
		if f.Required && strings.TrimSpace(value) == "" {
			return &ValidationError{Field: f.Name, Message: f.Message}
		}
		// MinLength counts characters, not bytes, so multibyte input is
		// measured the same way the browser form measures it.
		if f.MinLength > 0 && utf8.RuneCountInString(value) < f.MinLength {
			return &ValidationError{Field: f.Name, Message: f.Message}
		}
	}
	return nil
}
