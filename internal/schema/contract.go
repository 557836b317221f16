// Package schema holds the validation contracts for every resource, the
// registry that resolves a resource name to its contracts, and the input
// validator built on top of it.
package schema

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"crud-gateway/internal/payload"
)

// FieldType is the JSON type a field must carry.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeNumber  FieldType = "number"
	TypeInteger FieldType = "integer"
	TypeBoolean FieldType = "boolean"
)

// CheckKind identifies a format constraint.
type CheckKind string

const (
	CheckMinLength  CheckKind = "min_length"
	CheckMaxLength  CheckKind = "max_length"
	CheckPattern    CheckKind = "pattern"
	CheckOneOf      CheckKind = "one_of"
	CheckPredicate  CheckKind = "predicate"
	CheckExpression CheckKind = "expression"
)

// Check is a single format constraint on a field value. Which of the
// constraint fields is consulted depends on Kind.
type Check struct {
	Kind       CheckKind
	Length     int
	Pattern    *regexp.Regexp
	Values     []string
	Predicate  func(value any) bool
	Expression string
	Message    string

	once    sync.Once
	program *vm.Program
	compErr error
}

// MinLength requires a string of at least n characters.
func MinLength(n int, msg string) *Check {
	return &Check{Kind: CheckMinLength, Length: n, Message: msg}
}

// MaxLength requires a string of at most n characters.
func MaxLength(n int, msg string) *Check {
	return &Check{Kind: CheckMaxLength, Length: n, Message: msg}
}

// Pattern requires a string matching re.
func Pattern(re *regexp.Regexp, msg string) *Check {
	return &Check{Kind: CheckPattern, Pattern: re, Message: msg}
}

// OneOf requires a string equal to one of values.
func OneOf(values []string, msg string) *Check {
	return &Check{Kind: CheckOneOf, Values: values, Message: msg}
}

// Predicate requires fn(value) to be true.
func Predicate(fn func(value any) bool, msg string) *Check {
	return &Check{Kind: CheckPredicate, Predicate: fn, Message: msg}
}

// Expression requires a boolean expr-lang program to evaluate to true.
// The environment exposes the field value as "value" and the whole payload
// as "record". Evaluation errors count as a failed check.
func Expression(src string, msg string) *Check {
	return &Check{Kind: CheckExpression, Expression: src, Message: msg}
}

// passes reports whether value satisfies the check. value has already been
// type-checked against the owning field.
func (c *Check) passes(value any, record map[string]any) bool {
	switch c.Kind {
	case CheckMinLength:
		s, _ := value.(string)
		return utf8.RuneCountInString(s) >= c.Length
	case CheckMaxLength:
		s, _ := value.(string)
		return utf8.RuneCountInString(s) <= c.Length
	case CheckPattern:
		s, _ := value.(string)
		return c.Pattern != nil && c.Pattern.MatchString(s)
	case CheckOneOf:
		s, _ := value.(string)
		for _, v := range c.Values {
			if v == s {
				return true
			}
		}
		return false
	case CheckPredicate:
		return c.Predicate != nil && c.Predicate(value)
	case CheckExpression:
		prog, err := c.compiled()
		if err != nil {
			return false
		}
		out, err := expr.Run(prog, map[string]any{"value": value, "record": record})
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	}
	return false
}

func (c *Check) compiled() (*vm.Program, error) {
	c.once.Do(func() {
		c.program, c.compErr = expr.Compile(c.Expression, expr.AsBool())
		if c.compErr != nil {
			c.compErr = fmt.Errorf("compile expression %q: %w", c.Expression, c.compErr)
		}
	})
	return c.program, c.compErr
}

// Field describes one payload key of a contract.
type Field struct {
	Name     string // payload key, camelCase
	Label    string // human name used in default messages
	Type     FieldType
	Optional bool

	RequiredMessage string
	TypeMessage     string
	Checks          []*Check
}

func (f Field) requiredMessage() string {
	if f.RequiredMessage != "" {
		return f.RequiredMessage
	}
	return fmt.Sprintf("%s required", f.label())
}

func (f Field) typeMessage() string {
	if f.TypeMessage != "" {
		return f.TypeMessage
	}
	return fmt.Sprintf("%s must be %s", f.label(), f.Type.withArticle())
}

func (t FieldType) withArticle() string {
	if t == "" {
		return "a value"
	}
	if strings.ContainsRune("aeiou", rune(t[0])) {
		return "an " + string(t)
	}
	return "a " + string(t)
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func (f Field) typeMatches(value any) bool {
	switch f.Type {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeNumber:
		_, ok := toFloat64(value)
		return ok
	case TypeInteger:
		n, ok := toFloat64(value)
		return ok && n == float64(int64(n))
	}
	return true
}

// Contract is an ordered list of fields a payload is checked against.
type Contract struct {
	Name   string
	Fields []Field
}

// Partial returns the field-wise optional relaxation of the contract: same
// fields, same checks, nothing required.
func (c *Contract) Partial() *Contract {
	fields := make([]Field, len(c.Fields))
	for i, f := range c.Fields {
		f.Optional = true
		fields[i] = f
	}
	return &Contract{Name: c.Name, Fields: fields}
}

// Field returns the field with the given payload key, or nil.
func (c *Contract) Field(name string) *Field {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

// Evaluate checks p against the contract and returns one message per
// violated constraint, in field declaration order. Keys the contract does
// not declare are ignored.
func (c *Contract) Evaluate(p *payload.Payload) []string {
	record := p.Map()
	var msgs []string
	for _, f := range c.Fields {
		value, present := p.Get(f.Name)
		if !present || value == nil {
			if !f.Optional {
				msgs = append(msgs, f.requiredMessage())
			}
			continue
		}
		if !f.typeMatches(value) {
			msgs = append(msgs, f.typeMessage())
			continue
		}
		for _, check := range f.Checks {
			if !check.passes(value, record) {
				msgs = append(msgs, check.Message)
			}
		}
	}
	return msgs
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
