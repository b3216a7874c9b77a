// internal/matching/pool/filter.go
package pool

import (
	"errors"
	"fmt"
	"strconv"
)

type Operator string

const (
	OpEquals      Operator = "EQUALS"
	OpNotEquals   Operator = "NOT_EQUALS"
	OpIn          Operator = "IN"
	OpNotIn       Operator = "NOT_IN"
	OpGreaterThan Operator = "GREATER_THAN"
	OpLessThan    Operator = "LESS_THAN"
)

var ErrInvalidFilter = errors.New("INVALID_POOL_FILTER")

// Filter is one predicate over a ticket field. Values hold numbers or strings as decoded from config.
type Filter struct {
	Field    string        `json:"field" yaml:"field" mapstructure:"field"`
	Operator Operator      `json:"operator" yaml:"operator" mapstructure:"operator"`
	Values   []interface{} `json:"values" yaml:"values" mapstructure:"values"`
}

func (f Filter) Validate() error {
	if !knownField(f.Field) {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidFilter, f.Field)
	}
	if len(f.Values) == 0 {
		return fmt.Errorf("%w: %s has no values", ErrInvalidFilter, f.Field)
	}
	var t Ticket
	_, numeric := t.Numeric(f.Field)

	switch f.Operator {
	case OpEquals, OpNotEquals, OpIn, OpNotIn:
	case OpGreaterThan, OpLessThan:
		if !numeric {
			return fmt.Errorf("%w: %s requires a numeric field, got %s", ErrInvalidFilter, f.Operator, f.Field)
		}
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, f.Operator)
	}

	if numeric {
		for _, v := range f.Values {
			if _, ok := toFloat(v); !ok {
				return fmt.Errorf("%w: %s expects numbers, got %v", ErrInvalidFilter, f.Field, v)
			}
		}
	}
	return nil
}

// Matches evaluates the predicate. On set fields EQUALS and IN mean any overlap, NOT_EQUALS and
// NOT_IN mean no overlap.
func (f Filter) Matches(t *Ticket) bool {
	if n, ok := t.Numeric(f.Field); ok {
		return f.matchNumeric(n)
	}
	if set, ok := t.Set(f.Field); ok {
		return f.matchSet(set)
	}
	return false
}

func (f Filter) matchNumeric(n float64) bool {
	switch f.Operator {
	case OpEquals, OpIn:
		return f.containsNumber(n)
	case OpNotEquals, OpNotIn:
		return !f.containsNumber(n)
	case OpGreaterThan:
		v, ok := toFloat(f.Values[0])
		return ok && n > v
	case OpLessThan:
		v, ok := toFloat(f.Values[0])
		return ok && n < v
	}
	return false
}

func (f Filter) matchSet(set []string) bool {
	overlap := false
	for _, s := range set {
		if f.containsString(s) {
			overlap = true
			break
		}
	}
	switch f.Operator {
	case OpEquals, OpIn:
		return overlap
	case OpNotEquals, OpNotIn:
		return !overlap
	}
	return false
}

func (f Filter) containsNumber(n float64) bool {
	for _, v := range f.Values {
		if x, ok := toFloat(v); ok && x == n {
			return true
		}
	}
	return false
}

func (f Filter) containsString(s string) bool {
	for _, v := range f.Values {
		if fmt.Sprint(v) == s {
			return true
		}
	}
	return false
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}
