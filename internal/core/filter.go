// Package core provides filtering, sorting, and lookup logic for engine
// values.
package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jmylchreest/uisync/internal/engine"
)

// FilterOp represents a comparison operator.
type FilterOp string

const (
	FilterOpEqual     FilterOp = "="  // Exact match
	FilterOpNotEqual  FilterOp = "!=" // Not equal
	FilterOpContains  FilterOp = "~"  // Contains substring
	FilterOpRegex     FilterOp = "~=" // Regex match
	FilterOpGreater   FilterOp = ">"  // Greater than
	FilterOpLess      FilterOp = "<"  // Less than
	FilterOpGreaterEq FilterOp = ">=" // Greater than or equal
	FilterOpLessEq    FilterOp = "<=" // Less than or equal
)

// Filter fields.
const (
	FieldKey   = "key"   // full key
	FieldValue = "value" // value as a string
	FieldItem  = "item"  // key without its last segment
	FieldAttr  = "attr"  // last key segment
	FieldNum   = "num"   // value parsed as a number
)

// FilterCondition represents a single filter condition.
type FilterCondition struct {
	Field    string
	Operator FilterOp
	Value    string

	regex  *regexp.Regexp
	numVal float64
}

// FilterExpr represents a compound filter expression.
// Multiple conditions are ANDed together.
type FilterExpr struct {
	Conditions []FilterCondition
}

// ParseFilter parses a filter expression string into a FilterExpr.
// Format: "field=value,field2~value2,field3>value3"
//
// Supported fields: key, value, item, attr, num
// Supported operators: = (equal), != (not equal), ~ (contains), ~= (regex), >, <, >=, <=
//
// Examples:
//   - "item=Inventory" - every key of the Inventory window
//   - "attr=Visible,value=0" - hidden windows
//   - "key~=^System\." - reserved keys
//   - "attr=ZClass,num>=100" - windows above the bag layer
func ParseFilter(expr string) (*FilterExpr, error) {
	filter := &FilterExpr{}
	if expr == "" {
		return filter, nil
	}

	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		filter.Conditions = append(filter.Conditions, cond)
	}

	return filter, nil
}

// operators in order of specificity (longest first).
var operators = []FilterOp{
	FilterOpNotEqual,
	FilterOpGreaterEq,
	FilterOpLessEq,
	FilterOpRegex,
	FilterOpEqual,
	FilterOpContains,
	FilterOpGreater,
	FilterOpLess,
}

func splitCondition(s string) (field string, op FilterOp, value string, ok bool) {
	best := -1
	for _, o := range operators {
		idx := strings.Index(s, string(o))
		if idx <= 0 {
			continue
		}
		// The leftmost operator wins; ties go to the longer one.
		if best == -1 || idx < best {
			best, op = idx, o
		}
	}
	if best == -1 {
		return "", "", "", false
	}
	return strings.TrimSpace(s[:best]), op, strings.TrimSpace(s[best+len(op):]), true
}

// parseCondition parses a single condition like "item=Inv" or "value~bag".
func parseCondition(s string) (FilterCondition, error) {
	field, op, value, ok := splitCondition(s)
	if !ok {
		return FilterCondition{}, fmt.Errorf("invalid filter condition: %s (missing operator)", s)
	}
	cond := FilterCondition{
		Field:    strings.ToLower(field),
		Operator: op,
		Value:    value,
	}
	if err := cond.init(); err != nil {
		return FilterCondition{}, err
	}
	return cond, nil
}

// init pre-parses and validates the condition value.
func (c *FilterCondition) init() error {
	switch c.Field {
	case "key", "k":
		c.Field = FieldKey
	case "value", "val", "v":
		c.Field = FieldValue
	case "item", "window":
		c.Field = FieldItem
	case "attr", "attribute":
		c.Field = FieldAttr
	case "num", "number":
		c.Field = FieldNum
		n, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return fmt.Errorf("invalid number: %s", c.Value)
		}
		c.numVal = n
	default:
		return fmt.Errorf("unknown filter field: %s", c.Field)
	}

	if c.Field != FieldNum {
		switch c.Operator {
		case FilterOpGreater, FilterOpLess, FilterOpGreaterEq, FilterOpLessEq:
			return fmt.Errorf("operator %s needs the num field", c.Operator)
		}
	}

	if c.Operator == FilterOpRegex {
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		c.regex = re
	}

	return nil
}

// Match tests if an entry matches the filter expression.
// All conditions must match (AND logic).
func (f *FilterExpr) Match(kv engine.KeyValue) bool {
	for i := range f.Conditions {
		if !f.Conditions[i].Match(kv) {
			return false
		}
	}
	return true
}

// Match tests if an entry matches this single condition.
func (c *FilterCondition) Match(kv engine.KeyValue) bool {
	switch c.Field {
	case FieldKey:
		return c.matchString(kv.Key)
	case FieldValue:
		return c.matchString(kv.Value)
	case FieldItem:
		item, _ := SplitKey(kv.Key)
		return c.matchString(item)
	case FieldAttr:
		_, attr := SplitKey(kv.Key)
		return c.matchString(attr)
	case FieldNum:
		n, err := strconv.ParseFloat(strings.TrimSpace(kv.Value), 64)
		if err != nil {
			return false
		}
		return c.matchNum(n)
	default:
		return false
	}
}

func (c *FilterCondition) matchString(fieldValue string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.Value
	case FilterOpNotEqual:
		return fieldValue != c.Value
	case FilterOpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(c.Value))
	case FilterOpRegex:
		return c.regex != nil && c.regex.MatchString(fieldValue)
	default:
		return false
	}
}

func (c *FilterCondition) matchNum(v float64) bool {
	switch c.Operator {
	case FilterOpEqual:
		return v == c.numVal
	case FilterOpNotEqual:
		return v != c.numVal
	case FilterOpGreater:
		return v > c.numVal
	case FilterOpLess:
		return v < c.numVal
	case FilterOpGreaterEq:
		return v >= c.numVal
	case FilterOpLessEq:
		return v <= c.numVal
	default:
		return false
	}
}

// FilterWithExpr filters entries using a filter expression.
func FilterWithExpr(values []engine.KeyValue, expr *FilterExpr) []engine.KeyValue {
	if expr == nil || len(expr.Conditions) == 0 {
		return values
	}

	result := make([]engine.KeyValue, 0, len(values))
	for _, kv := range values {
		if expr.Match(kv) {
			result = append(result, kv)
		}
	}
	return result
}

// IsFilterExpression reports whether query parses as a filter expression
// rather than plain search text.
func IsFilterExpression(query string) bool {
	if query == "" {
		return false
	}
	expr, err := ParseFilter(query)
	return err == nil && len(expr.Conditions) > 0
}

// SplitKey splits a key into its item path and last attribute segment.
// A key without dots is all attribute.
func SplitKey(key string) (item, attr string) {
	i := strings.LastIndexByte(key, '.')
	if i < 0 {
		return "", key
	}
	return key[:i], key[i+1:]
}
