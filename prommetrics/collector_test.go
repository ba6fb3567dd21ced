package prommetrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/structidx"
	"github.com/hupe1980/structidx/model"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.RecordBuild(100, time.Microsecond, nil)
	c.RecordBuild(50, time.Microsecond, errors.New("boom"))
	c.RecordLookup(model.OutcomeFound, true, time.Microsecond)
	c.RecordLookup(model.OutcomeNotFound, false, time.Microsecond)
	c.RecordLookup(model.OutcomeFound, false, time.Microsecond)
	c.RecordPatternInvalidation()
	c.RecordPoolWait(time.Millisecond, nil)

	assert.Equal(t, 100.0, testutil.ToFloat64(c.buildUnits))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.lookups.WithLabelValues("found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lookups.WithLabelValues("not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.invalidations))
	assert.Equal(t, 2, testutil.CollectAndCount(c.buildLatency))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
}

func TestCollectorWithExtractor(t *testing.T) {
	c := New(nil)
	ex, err := structidx.NewExtractor(structidx.WithMetricsCollector(c))
	require.NoError(t, err)
	defer ex.Close()

	doc := `{"a":{"b":1},"c":2}`
	for range 3 {
		_, ok, err := ex.FindValueString(doc, "a.b")
		require.NoError(t, err)
		require.True(t, ok)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(c.lookups.WithLabelValues("found")))
	assert.Equal(t, float64(3*len(doc)), testutil.ToFloat64(c.buildUnits))
	assert.Equal(t, 2, testutil.CollectAndCount(c.lookupLatency), "search and speculative series")
}
