package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordGeneration(t *testing.T) {
	aiBefore := testutil.ToFloat64(GenerationsTotal.WithLabelValues("ai"))
	fbBefore := testutil.ToFloat64(GenerationsTotal.WithLabelValues("fallback"))
	reasonBefore := testutil.ToFloat64(FallbacksTotal.WithLabelValues("parse_error"))

	RecordGeneration(true, "")
	RecordGeneration(false, "parse_error")

	assert.Equal(t, aiBefore+1, testutil.ToFloat64(GenerationsTotal.WithLabelValues("ai")))
	assert.Equal(t, fbBefore+1, testutil.ToFloat64(GenerationsTotal.WithLabelValues("fallback")))
	assert.Equal(t, reasonBefore+1, testutil.ToFloat64(FallbacksTotal.WithLabelValues("parse_error")))
}

func TestRecordPipelineRun(t *testing.T) {
	before := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("done"))

	RecordPipelineRun("done", 0.2, true, 1741737600)

	assert.Equal(t, before+1, testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("done")))
	assert.Equal(t, float64(1741737600), testutil.ToFloat64(LastSuccessTimestamp))

	RecordPipelineRun("failed", 0.1, false, 1741824000)
	assert.Equal(t, float64(1741737600), testutil.ToFloat64(LastSuccessTimestamp))
}
