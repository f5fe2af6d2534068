package validator

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"
)

// Type is the JSON type a field must decode as.
type Type int

const (
	String Type = iota
	Integer
)

// Mode selects which fields are required.
type Mode int

const (
	Create Mode = iota
	Update
)

// Constraint checks an already type-converted value. Strings arrive as
// string and integers as int64. It returns an empty message when the value
// is acceptable.
type Constraint func(value any) string

// Field describes one key of a JSON object.
type Field struct {
	Name        string
	Type        Type
	Required    bool // required in every mode
	CreateOnly  bool // required on Create, optional on Update
	Constraints []Constraint
}

// Schema is an ordered description of an object's fields.
type Schema []Field

// Values holds the accepted, normalized field values keyed by field name.
type Values map[string]any

// String returns the string stored under name, or "" if absent.
func (vs Values) String(name string) string {
	s, _ := vs[name].(string)
	return s
}

// Int returns the integer stored under name, or 0 if absent.
func (vs Values) Int(name string) int64 {
	n, _ := vs[name].(int64)
	return n
}

// Has reports whether name was present and accepted.
func (vs Values) Has(name string) bool {
	_, ok := vs[name]
	return ok
}

// Evaluate checks payload against the schema in the given mode. Every
// violation is collected in the returned Validator; Values only holds the
// fields that passed. Numbers in payload may be json.Number or float64.
func (s Schema) Evaluate(payload map[string]any, mode Mode) (Values, *Validator) {
	v := New()
	values := make(Values, len(s))
	known := make(map[string]bool, len(s))

	for _, f := range s {
		known[f.Name] = true

		raw, present := payload[f.Name]
		if raw == nil {
			present = false
		}
		if !present {
			if f.Required || (f.CreateOnly && mode == Create) {
				v.Require(false, f.Name)
			}
			continue
		}

		value, ok := convert(raw, f.Type)
		if !ok {
			v.AddError(f.Name, InvalidField, "must be "+article(f.Type))
			continue
		}

		for _, c := range f.Constraints {
			if msg := c(value); msg != "" {
				v.AddError(f.Name, InvalidField, msg)
				break
			}
		}
		if _, failed := v.Errors[f.Name]; !failed {
			values[f.Name] = value
		}
	}

	for key := range payload {
		if !known[key] {
			v.AddError(key, InvalidField, "unknown field")
		}
	}

	return values, v
}

func article(t Type) string {
	if t == Integer {
		return "an integer"
	}
	return "a string"
}

func convert(raw any, t Type) (any, bool) {
	switch t {
	case String:
		s, ok := raw.(string)
		return s, ok
	case Integer:
		switch n := raw.(type) {
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i, true
			}
			// 250.0 and 1e2 are whole numbers too.
			f, err := n.Float64()
			if err != nil {
				return nil, false
			}
			return wholeFloat(f)
		case float64:
			return wholeFloat(n)
		case int:
			return int64(n), true
		case int64:
			return n, true
		}
	}
	return nil, false
}

func wholeFloat(f float64) (any, bool) {
	if f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
		return nil, false
	}
	return int64(f), true
}

// NotBlank rejects strings that are empty after trimming whitespace.
func NotBlank() Constraint {
	return func(value any) string {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			return "must not be blank"
		}
		return ""
	}
}

// MaxLength rejects strings longer than n characters.
func MaxLength(n int) Constraint {
	return func(value any) string {
		if s, _ := value.(string); utf8.RuneCountInString(s) > n {
			return fmt.Sprintf("must not be more than %d characters long", n)
		}
		return ""
	}
}

// Positive rejects integers that are zero or negative.
func Positive() Constraint {
	return func(value any) string {
		if n, _ := value.(int64); n <= 0 {
			return "must be greater than zero"
		}
		return ""
	}
}

// AtMost rejects integers greater than n.
func AtMost(n int64) Constraint {
	return func(value any) string {
		if i, _ := value.(int64); i > n {
			return fmt.Sprintf("must not be greater than %d", n)
		}
		return ""
	}
}

// Between rejects integers outside [lo, upper()]. upper is a func so
// bounds tied to the clock are computed per call.
func Between(lo int64, upper func() int64) Constraint {
	return func(value any) string {
		n, _ := value.(int64)
		hi := upper()
		if n < lo || n > hi {
			return fmt.Sprintf("must be between %d and %d", lo, hi)
		}
		return ""
	}
}

var playgroundValidate = playground.New()

// URL rejects strings that are not well-formed absolute http or https URLs.
func URL() Constraint {
	return func(value any) string {
		s, _ := value.(string)
		if err := playgroundValidate.Var(s, "required,http_url"); err != nil {
			return "must be a valid URL"
		}
		return ""
	}
}

// Func adapts a predicate into a Constraint that reports message when
// ok returns false.
func Func(message string, ok func(value any) bool) Constraint {
	return func(value any) string {
		if !ok(value) {
			return message
		}
		return ""
	}
}
