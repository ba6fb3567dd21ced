package predicate

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/structidx"
	"github.com/hupe1980/structidx/docstore"
	"github.com/hupe1980/structidx/model"
)

func newEvaluator(t *testing.T, optFns ...Option) *Evaluator {
	t.Helper()
	ex, err := structidx.NewExtractor()
	require.NoError(t, err)
	t.Cleanup(func() { _ = ex.Close() })
	return NewEvaluator(ex, optFns...)
}

func TestRangeOverTwoDocuments(t *testing.T) {
	ev := newEvaluator(t)
	docs := [][]byte{
		[]byte(`{"age":26,"name":"x"}`),
		[]byte(`{"age":30,"name":"y"}`),
	}

	hits, err := ev.Filter(context.Background(), docs, Less("age", model.Number(27)))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, hits.ToArray())
}

func TestFilterOperators(t *testing.T) {
	ev := newEvaluator(t)
	doc := []byte(`{"user":{"name":"ada lovelace","age":36,"admin":true,"team":null},"tags":["a"]}`)

	tests := []struct {
		p    Predicate
		want bool
	}{
		{Equal("user.name", model.String("ada lovelace")), true},
		{Equal("user.name", model.Number(1)), false},
		{NotEqual("user.age", model.Number(35)), true},
		{NotEqual("user.missing", model.Number(35)), false},
		{Less("user.age", model.Number(36)), false},
		{LessEqual("user.age", model.Number(36)), true},
		{Greater("user.age", model.Number(30)), true},
		{GreaterEqual("user.age", model.Number(37)), false},
		{Greater("user.name", model.Number(1)), false},
		{Greater("user.admin", model.Bool(false)), true},
		{Less("user.team", model.Null()), false},
		{Equal("user.team", model.Null()), true},
		{In("user.age", model.Number(1), model.Number(36)), true},
		{In("user.age", model.String("36")), false},
		{Contains("user.name", "love"), true},
		{Contains("user.age", "3"), false},
		{Exists("user.team"), true},
		{Exists("user"), false},
		{Exists("tags"), false},
		{Between("user.age", model.Number(30), model.Number(36)), true},
		{Between("user.age", model.Number(37), model.Number(40)), false},
		{Between("user.name", model.Number(0), model.Number(1)), false},
		{And(Exists("user.name"), Greater("user.age", model.Number(18))), true},
		{And(Exists("user.name"), Greater("user.age", model.Number(40))), false},
		{And(), true},
		{Or(Equal("user.age", model.Number(1)), Equal("user.admin", model.Bool(true))), true},
		{Or(), false},
		{Not(Exists("user.missing")), true},
		{Not(Less("user.age", model.Number(40))), false},
	}

	for _, tt := range tests {
		t.Run(tt.p.String(), func(t *testing.T) {
			got, err := ev.Match(doc, tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInvalidPath(t *testing.T) {
	ev := newEvaluator(t)

	_, err := ev.Match([]byte(`{"a":1}`), Equal("a..b", model.Number(1)))
	assert.ErrorIs(t, err, structidx.ErrInvalidPath)

	_, err = ev.Filter(context.Background(), [][]byte{[]byte(`{}`)}, Not(Exists("")))
	assert.ErrorIs(t, err, structidx.ErrInvalidPath)

	_, err = ev.Filter(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()

	var names []string
	for i := range 100 {
		name := fmt.Sprintf("people/%03d.json", i)
		doc := fmt.Sprintf(`{"id":%d,"profile":{"age":%d,"city":%q}}`, i, 18+i%50, []string{"berlin", "paris"}[i%2])
		require.NoError(t, store.Put(ctx, name, []byte(doc)))
		names = append(names, name)
	}

	rc := structidx.NewResourceController(structidx.ResourceConfig{})
	ev := newEvaluator(t, WithParallelism(4), WithResourceController(rc))

	p := And(
		Less("profile.age", model.Number(20)),
		Equal("profile.city", model.String("berlin")),
	)
	hits, err := ev.Scan(ctx, store, names, p)
	require.NoError(t, err)

	var want []uint32
	for i := range 100 {
		if 18+i%50 < 20 && i%2 == 0 {
			want = append(want, uint32(i))
		}
	}
	assert.Equal(t, want, hits.ToArray())
	assert.Positive(t, rc.IOBytes())

	t.Run("MissingDocument", func(t *testing.T) {
		_, err := ev.Scan(ctx, store, []string{"people/000.json", "nope.json"}, p)
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("Canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := ev.Scan(cctx, store, names, p)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestScanRecords(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()

	docs := []string{`{"n":1}`, `{"n":2}`, `{"n":3}`}
	names := make([]string, len(docs))
	for i, d := range docs {
		rec, err := structidx.EncodeRecord(d, structidx.RecordOptions{IndexLevels: 2})
		require.NoError(t, err)
		names[i] = fmt.Sprintf("r%d", i)
		require.NoError(t, store.Put(ctx, names[i], rec))
	}

	ev := newEvaluator(t, WithRecords(structidx.RecordUTF8))
	hits, err := ev.Scan(ctx, store, names, GreaterEqual("n", model.Number(2)))
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2}, hits.ToArray())
}

func TestParse(t *testing.T) {
	f, err := Parse("age", "<", "27")
	require.NoError(t, err)
	assert.Equal(t, OpLessThan, f.Operator)
	assert.Equal(t, []model.Scalar{model.Number(27)}, f.Values)
	assert.Equal(t, "age lt 27", f.String())

	f, err = Parse("tags.kind", "in", "a", `"b\"c"`, "true", "null")
	require.NoError(t, err)
	assert.Equal(t, []model.Scalar{model.String("a"), model.String(`b"c`), model.Bool(true), model.Null()}, f.Values)

	_, err = Parse("age", "exists", "1")
	assert.Error(t, err)
	_, err = Parse("age", "eq")
	assert.Error(t, err)
	_, err = Parse("age", "in")
	assert.Error(t, err)
	_, err = Parse("age", "~", "1")
	assert.Error(t, err)
	_, err = Parse(".age", "eq", "1")
	assert.ErrorIs(t, err, model.ErrInvalidPath)
}

func BenchmarkFilter(b *testing.B) {
	ex, err := structidx.NewExtractor()
	require.NoError(b, err)
	defer ex.Close()
	ev := NewEvaluator(ex)

	docs := make([][]byte, 256)
	for i := range docs {
		docs[i] = fmt.Appendf(nil, `{"id":%d,"meta":{"score":%d,"name":"doc-%d"}}`, i, i%100, i)
	}
	p := Between("meta.score", model.Number(10), model.Number(20))

	b.ReportAllocs()
	for b.Loop() {
		if _, err := ev.Filter(context.Background(), docs, p); err != nil {
			b.Fatal(err)
		}
	}
}
