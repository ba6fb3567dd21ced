package model

// Outcome classifies the result of a lookup.
type Outcome uint8

const (
	// OutcomeNotFound means the path is absent or the document is malformed
	// around it (missing key, truncated or unbalanced JSON).
	OutcomeNotFound Outcome = iota
	// OutcomeFound means a scalar was decoded.
	OutcomeFound
	// OutcomeNotScalar means the path resolved to an object or array.
	OutcomeNotScalar
	// OutcomeMalformed means the path resolved but the token after the
	// colon is not a valid JSON value.
	OutcomeMalformed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotScalar:
		return "not_scalar"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "not_found"
	}
}

// Result is the outcome of one lookup.
type Result struct {
	Outcome Outcome
	Value   Scalar
	// Speculative is set when the value was located through a cached Pattern
	// without a full search.
	Speculative bool
}

// Found reports whether Value holds a decoded scalar.
func (r Result) Found() bool { return r.Outcome == OutcomeFound }
