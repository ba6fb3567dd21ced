package value

import (
	"strings"
	"testing"

	"github.com/hupe1980/structidx/internal/text"
	"github.com/hupe1980/structidx/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// read decodes the value after the first colon of doc.
func read(doc string) (model.Scalar, model.Outcome) {
	return Read(text.String(doc), strings.IndexByte(doc, ':'))
}

func TestReadScalars(t *testing.T) {
	tests := []struct {
		doc  string
		want model.Scalar
	}{
		{`{"a":true}`, model.Bool(true)},
		{`{"a": false ,"b":1}`, model.Bool(false)},
		{`{"a":null}`, model.Null()},
		{`{"a":"aName"}`, model.String("aName")},
		{`{"a":  26}`, model.Number(26)},
		{`{"a":-1.5e3,"b":2}`, model.Number(-1500)},
		{`{"a":0.25}`, model.Number(0.25)},
		{"{\"a\":\n\t\"x\"}", model.String("x")},
		{`{"a":""}`, model.String("")},
	}
	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			got, outcome := read(tt.doc)
			require.Equal(t, model.OutcomeFound, outcome)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadEscapes(t *testing.T) {
	tests := map[string]string{
		`{"d2":"u\"y"}`:             `u"y`,
		`{"a":"back\\slash"}`:       `back\slash`,
		`{"a":"tab\tnl\n\/"}`:       "tab\tnl\n/",
		`{"a":"été"}`:     "été",
		`{"a":"😀!"}`:     "😀!",
		`{"a":"lone \ud83d here"}`:  "lone � here",
		`{"a":"ends with \\"}`:      `ends with \`,
	}
	for doc, want := range tests {
		t.Run(doc, func(t *testing.T) {
			got, outcome := read(doc)
			require.Equal(t, model.OutcomeFound, outcome)
			assert.Equal(t, want, got.Str)
		})
	}
}

func TestReadNonScalarAndMalformed(t *testing.T) {
	tests := map[string]model.Outcome{
		`{"a":{"b":1}}`:  model.OutcomeNotScalar,
		`{"a":[1,2]}`:    model.OutcomeNotScalar,
		`{"a":tru}`:      model.OutcomeMalformed,
		`{"a":truex}`:    model.OutcomeMalformed,
		`{"a":nul`:       model.OutcomeMalformed,
		`{"a":"open`:     model.OutcomeMalformed,
		`{"a":-}`:        model.OutcomeMalformed,
		`{"a":1.2.3}`:    model.OutcomeMalformed,
		`{"a":12x}`:      model.OutcomeMalformed,
		`{"a":`:          model.OutcomeMalformed,
		`{"a":   `:       model.OutcomeMalformed,
		`{"a":@}`:        model.OutcomeMalformed,
		`{"a":"\q"}`:     model.OutcomeMalformed,
		`{"a":"\u12"}`:   model.OutcomeMalformed,
	}
	for doc, want := range tests {
		t.Run(doc, func(t *testing.T) {
			_, outcome := read(doc)
			assert.Equal(t, want, outcome)
		})
	}
}

func TestReadUTF16(t *testing.T) {
	doc := `{"città":"café ☕","n":-3}`
	raw, err := text.EncodeUTF16(doc)
	require.NoError(t, err)
	src, err := text.NewUTF16(raw)
	require.NoError(t, err)

	got, outcome := Read(src, 8)
	require.Equal(t, model.OutcomeFound, outcome)
	assert.Equal(t, "café ☕", got.Str)

	colon := -1
	for i := src.Len() - 1; i >= 0; i-- {
		if src.At(i) == ':' {
			colon = i
			break
		}
	}
	got, outcome = Read(src, colon)
	require.Equal(t, model.OutcomeFound, outcome)
	assert.Equal(t, model.Number(-3), got)
}

func TestStringEnd(t *testing.T) {
	src := text.String(`"a\"b\\" x`)
	end, escaped, ok := StringEnd(src, 0)
	require.True(t, ok)
	assert.True(t, escaped)
	assert.Equal(t, 7, end)

	_, _, ok = StringEnd(text.String(`"abc\"`), 0)
	assert.False(t, ok)
}

func BenchmarkReadString(b *testing.B) {
	src := text.String(`{"name":"a \"quoted\" name with éscapes"}`)
	for b.Loop() {
		Read(src, 7)
	}
}
