// Package validate applies declarative field rules to request bodies and
// reports failures in the {"errors":[...]} shape clients expect.
package validate

import (
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
)

// FieldError describes one failed rule.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// Errors is the list of failed rules for a request.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Msg
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Message builds a single-entry error list that carries only a message.
func Message(msg string) Errors {
	return Errors{{Msg: msg}}
}

// Body collects rule failures for fields of a JSON body.
type Body struct {
	errs Errors
}

func (b *Body) fail(param, msg string) {
	b.errs = append(b.errs, FieldError{Msg: msg, Param: param, Location: "body"})
}

// NotEmpty fails when value is the empty string.
func (b *Body) NotEmpty(param, value, msg string) *Body {
	if govalidator.IsNull(value) {
		b.fail(param, msg)
	}
	return b
}

// Email fails when value is not a well-formed address.
func (b *Body) Email(param, value, msg string) *Body {
	if !govalidator.IsEmail(value) {
		b.fail(param, msg)
	}
	return b
}

// MinLength fails when value has fewer than n characters.
func (b *Body) MinLength(param, value string, n int, msg string) *Body {
	if utf8.RuneCountInString(value) < n {
		b.fail(param, msg)
	}
	return b
}

// Err returns the collected failures, or nil when every rule passed.
func (b *Body) Err() error {
	if len(b.errs) == 0 {
		return nil
	}
	return b.errs
}
