package parser

import (
	"errors"
	"strconv"
	"strings"
)

// Field names a positional field of an ELB log line in error reports.
type Field string

const (
	FieldTimestamp              Field = "timestamp"
	FieldELBName                Field = "elb name"
	FieldClientAddress          Field = "client address"
	FieldBackendAddress         Field = "backend address"
	FieldRequestProcessingTime  Field = "request processing time"
	FieldBackendProcessingTime  Field = "backend processing time"
	FieldResponseProcessingTime Field = "response processing time"
	FieldELBStatusCode          Field = "ELB status code"
	FieldBackendStatusCode      Field = "backend status code"
	FieldReceivedBytes          Field = "received bytes"
	FieldSentBytes              Field = "sent bytes"
	FieldRequestMethod          Field = "request method"
	FieldRequestURL             Field = "request URL"
	FieldRequestHTTPVersion     Field = "request HTTP version"
)

var (
	ErrMissingField  = errors.New("missing field")
	ErrNotIPv4       = errors.New("not an IPv4 endpoint")
	ErrInvalidNumber = errors.New("invalid decimal number")
	ErrTimestamp     = errors.New("timestamp not in " + TimestampLayout + " form")
)

// FieldError is the failure of a single field.
type FieldError struct {
	Field Field
	Err   error
}

func (e FieldError) Error() string {
	return string(e.Field) + ": " + e.Err.Error()
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// ParseError reports every malformed field of one line, in positional
// order, together with the untouched input.
type ParseError struct {
	Line   string
	Errors []FieldError
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("malformed line (")
	b.WriteString(strconv.Itoa(len(e.Errors)))
	if len(e.Errors) == 1 {
		b.WriteString(" field error)")
	} else {
		b.WriteString(" field errors)")
	}
	for i, fe := range e.Errors {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(fe.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		errs[i] = fe
	}
	return errs
}

// Fields returns the failing field names in order.
func (e *ParseError) Fields() []Field {
	fields := make([]Field, len(e.Errors))
	for i, fe := range e.Errors {
		fields[i] = fe.Field
	}
	return fields
}

// Has reports whether field is among the failing fields.
func (e *ParseError) Has(field Field) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}
