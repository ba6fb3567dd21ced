package predicate

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/valyala/fastjson/fastfloat"

	"github.com/hupe1980/structidx/model"
)

// ParseOperator accepts an operator name or its symbol.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eq", "=", "==":
		return OpEqual, nil
	case "ne", "!=", "<>":
		return OpNotEqual, nil
	case "gt", ">":
		return OpGreaterThan, nil
	case "gte", "ge", ">=":
		return OpGreaterEqual, nil
	case "lt", "<":
		return OpLessThan, nil
	case "lte", "le", "<=":
		return OpLessEqual, nil
	case "in":
		return OpIn, nil
	case "contains":
		return OpContains, nil
	case "exists":
		return OpExists, nil
	}
	return "", fmt.Errorf("predicate: unknown operator %q", s)
}

// ParseScalar reads a command-line operand.
// JSON literals and numbers keep their type, quoted text is JSON-unescaped,
// and anything else is taken as a bare string.
func ParseScalar(s string) model.Scalar {
	switch s {
	case "null":
		return model.Null()
	case "true":
		return model.Bool(true)
	case "false":
		return model.Bool(false)
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var str string
		if err := json.Unmarshal([]byte(s), &str); err == nil {
			return model.String(str)
		}
	}
	if f, err := fastfloat.Parse(s); err == nil {
		return model.Number(f)
	}
	return model.String(s)
}

// Parse builds a Filter from an operator name and textual operands.
func Parse(path, op string, operands ...string) (*Filter, error) {
	o, err := ParseOperator(op)
	if err != nil {
		return nil, err
	}
	if _, err := model.ParsePath(path); err != nil {
		return nil, err
	}

	f := &Filter{Path: path, Operator: o}
	for _, s := range operands {
		f.Values = append(f.Values, ParseScalar(s))
	}

	switch {
	case o == OpExists && len(f.Values) != 0:
		return nil, fmt.Errorf("predicate: %s takes no operand", o)
	case o == OpIn && len(f.Values) == 0:
		return nil, fmt.Errorf("predicate: %s needs at least one operand", o)
	case o != OpExists && o != OpIn && len(f.Values) != 1:
		return nil, fmt.Errorf("predicate: %s needs exactly one operand", o)
	}
	return f, nil
}
