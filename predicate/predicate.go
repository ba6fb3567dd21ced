package predicate

import (
	"fmt"
	"strings"

	"github.com/hupe1980/structidx"
	"github.com/hupe1980/structidx/model"
)

// Operator represents a comparison operator.
type Operator string

const (
	// OpEqual represents the equality operator.
	OpEqual Operator = "eq"
	// OpNotEqual represents the inequality operator.
	OpNotEqual Operator = "ne"
	// OpGreaterThan represents the greater than operator.
	OpGreaterThan Operator = "gt"
	// OpGreaterEqual represents the greater than or equal operator.
	OpGreaterEqual Operator = "gte"
	// OpLessThan represents the less than operator.
	OpLessThan Operator = "lt"
	// OpLessEqual represents the less than or equal operator.
	OpLessEqual Operator = "lte"
	// OpIn represents the in list operator.
	OpIn Operator = "in"
	// OpContains represents the contains substring operator.
	OpContains Operator = "contains"
	// OpExists matches any scalar at the path.
	OpExists Operator = "exists"
)

// Predicate decides whether an indexed document matches.
// Implementations must be safe for concurrent use; the Index is not shared.
type Predicate interface {
	Match(ix *structidx.Index) (bool, error)
	String() string
}

// Filter compares the scalar at Path against Values.
//
// A document whose path is missing, or resolves to an object or array, never
// matches, not even OpNotEqual. Wrap the filter in Not to include those.
type Filter struct {
	Path     string
	Operator Operator
	// Values holds the operand, or the candidate list for OpIn.
	Values []model.Scalar
}

// Match implements Predicate.
func (f *Filter) Match(ix *structidx.Index) (bool, error) {
	res, err := ix.Lookup(f.Path)
	if err != nil {
		return false, err
	}
	if !res.Found() {
		return false, nil
	}
	return f.Compare(res.Value), nil
}

// Compare applies the operator to a decoded value.
func (f *Filter) Compare(v model.Scalar) bool {
	switch f.Operator {
	case OpExists:
		return true
	case OpIn:
		for _, c := range f.Values {
			if v.Equal(c) {
				return true
			}
		}
		return false
	}

	if len(f.Values) == 0 {
		return false
	}
	operand := f.Values[0]

	switch f.Operator {
	case OpEqual:
		return v.Equal(operand)
	case OpNotEqual:
		return !v.Equal(operand)
	case OpContains:
		s, ok := v.AsString()
		sub, ok2 := operand.AsString()
		return ok && ok2 && strings.Contains(s, sub)
	}

	cmp, ok := v.Compare(operand)
	if !ok {
		return false
	}
	switch f.Operator {
	case OpGreaterThan:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLessThan:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	default:
		return false
	}
}

func (f *Filter) String() string {
	switch f.Operator {
	case OpExists:
		return fmt.Sprintf("exists(%s)", f.Path)
	case OpIn:
		vals := make([]string, len(f.Values))
		for i, v := range f.Values {
			vals[i] = v.String()
		}
		return fmt.Sprintf("%s in [%s]", f.Path, strings.Join(vals, ", "))
	}
	if len(f.Values) == 0 {
		return fmt.Sprintf("%s %s ?", f.Path, f.Operator)
	}
	return fmt.Sprintf("%s %s %s", f.Path, f.Operator, f.Values[0])
}

// Compare returns a Filter with a single operand.
func Compare(path string, op Operator, v model.Scalar) *Filter {
	return &Filter{Path: path, Operator: op, Values: []model.Scalar{v}}
}

// Equal matches path == v.
func Equal(path string, v model.Scalar) *Filter { return Compare(path, OpEqual, v) }

// NotEqual matches path != v for present scalars.
func NotEqual(path string, v model.Scalar) *Filter { return Compare(path, OpNotEqual, v) }

// Less matches path < v.
func Less(path string, v model.Scalar) *Filter { return Compare(path, OpLessThan, v) }

// LessEqual matches path <= v.
func LessEqual(path string, v model.Scalar) *Filter { return Compare(path, OpLessEqual, v) }

// Greater matches path > v.
func Greater(path string, v model.Scalar) *Filter { return Compare(path, OpGreaterThan, v) }

// GreaterEqual matches path >= v.
func GreaterEqual(path string, v model.Scalar) *Filter { return Compare(path, OpGreaterEqual, v) }

// Contains matches string values containing sub.
func Contains(path, sub string) *Filter { return Compare(path, OpContains, model.String(sub)) }

// In matches any of vs.
func In(path string, vs ...model.Scalar) *Filter {
	return &Filter{Path: path, Operator: OpIn, Values: vs}
}

// Exists matches any scalar at path.
func Exists(path string) *Filter {
	return &Filter{Path: path, Operator: OpExists}
}

// Between matches lo <= path <= hi with a single lookup.
func Between(path string, lo, hi model.Scalar) Predicate {
	return &between{path: path, lo: lo, hi: hi}
}

type between struct {
	path   string
	lo, hi model.Scalar
}

func (b *between) Match(ix *structidx.Index) (bool, error) {
	res, err := ix.Lookup(b.path)
	if err != nil || !res.Found() {
		return false, err
	}
	lo, ok := res.Value.Compare(b.lo)
	if !ok || lo < 0 {
		return false, nil
	}
	hi, ok := res.Value.Compare(b.hi)
	return ok && hi <= 0, nil
}

func (b *between) String() string {
	return fmt.Sprintf("%s between %s and %s", b.path, b.lo, b.hi)
}

// And matches when every predicate matches. An empty And matches everything.
func And(ps ...Predicate) Predicate { return and(ps) }

type and []Predicate

func (a and) Match(ix *structidx.Index) (bool, error) {
	for _, p := range a {
		ok, err := p.Match(ix)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (a and) String() string { return join(a, " AND ") }

// Or matches when any predicate matches. An empty Or matches nothing.
func Or(ps ...Predicate) Predicate { return or(ps) }

type or []Predicate

func (o or) Match(ix *structidx.Index) (bool, error) {
	for _, p := range o {
		ok, err := p.Match(ix)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

func (o or) String() string { return join(o, " OR ") }

// Not inverts p.
func Not(p Predicate) Predicate { return not{p} }

type not struct{ p Predicate }

func (n not) Match(ix *structidx.Index) (bool, error) {
	ok, err := n.p.Match(ix)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (n not) String() string { return "NOT (" + n.p.String() + ")" }

func join(ps []Predicate, sep string) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = "(" + p.String() + ")"
	}
	return strings.Join(parts, sep)
}
