// Package codec centralizes JSON encoding for command output and reports.
//
// Lookup results, Explain reports and filter hits are rendered through a
// Codec so the CLI can switch between the standard library encoder and
// goccy/go-json by name.
package codec

import (
	"fmt"
	"io"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json", "":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}

// Write encodes v to w followed by a newline.
// With pretty set the output is indented by two spaces.
func Write(w io.Writer, c Codec, v any, pretty bool) error {
	if c == nil {
		c = Default
	}

	var (
		b   []byte
		err error
	)
	if pretty {
		b, err = c.MarshalIndent(v, "", "  ")
	} else {
		b, err = c.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("codec %s marshal failed: %w", c.Name(), err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
