package domain

import (
	"regexp"
	"strings"
)

type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldEmail    FieldKind = "email"
	FieldTextarea FieldKind = "textarea"
	FieldTel      FieldKind = "tel"
)

type FieldSpec struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
}

// A CheckoutForm is the ordered list of fields shown on checkout.
type CheckoutForm struct {
	Fields []FieldSpec
}

// DefaultCheckoutForm returns name, email and address as required fields
// followed by optional phone and notes.
func DefaultCheckoutForm() CheckoutForm {
	return CheckoutForm{Fields: []FieldSpec{
		{Name: "name", Label: "Full name", Kind: FieldText, Required: true},
		{Name: "email", Label: "Email", Kind: FieldEmail, Required: true},
		{Name: "address", Label: "Address", Kind: FieldTextarea, Required: true},
		{Name: "phone", Label: "Phone", Kind: FieldTel},
		{Name: "notes", Label: "Order notes", Kind: FieldTextarea},
	}}
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// Message is the user-facing text for the failure.
func (e FieldError) Message() string {
	switch e.Err {
	case ErrRequiredFieldMissing:
		return "This field is required."
	case ErrInvalidEmailFormat:
		return "Please enter a valid email."
	default:
		return e.Err.Error()
	}
}

// Validation is the outcome of a submit attempt, one entry per failing field.
type Validation struct {
	Errors []FieldError
}

func (v Validation) OK() bool {
	return len(v.Errors) == 0
}

// For returns the error of the named field, if it failed.
func (v Validation) For(field string) (FieldError, bool) {
	for _, e := range v.Errors {
		if e.Field == field {
			return e, true
		}
	}
	return FieldError{}, false
}

// Validate checks every field independently. A value of only whitespace
// counts as missing. Email fields are matched as submitted, untrimmed,
// against local@domain.tld.
func (f CheckoutForm) Validate(values map[string]string) Validation {
	var v Validation
	for _, spec := range f.Fields {
		raw := values[spec.Name]
		blank := strings.TrimSpace(raw) == ""
		switch {
		case blank && spec.Required:
			v.Errors = append(v.Errors, FieldError{spec.Name, ErrRequiredFieldMissing})
		case !blank && spec.Kind == FieldEmail && !emailRe.MatchString(raw):
			v.Errors = append(v.Errors, FieldError{spec.Name, ErrInvalidEmailFormat})
		}
	}
	return v
}
