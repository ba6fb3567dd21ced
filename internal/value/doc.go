// Package value decodes the JSON scalar that follows a key/value colon.
//
// Read skips whitespace after the colon and dispatches on the first code
// unit: literals (true, false, null) are verified in full, strings are read
// up to the first unescaped quote and unescaped, numbers are parsed as
// float64. An object or array yields model.OutcomeNotScalar; anything else,
// including truncated input, yields model.OutcomeMalformed.
package value
