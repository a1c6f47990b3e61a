package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"rent_radar/pkg/metrics"
)

func TestPipeline(t *testing.T) {
	rq := require.New(t)

	reg := prometheus.NewRegistry()
	p := metrics.NewPipeline(reg)

	p.RowsDropped("2bd", "small_description", 3)
	p.RowsDropped("2bd", "small_description", 1)
	p.RowsDropped("2bd", "incomplete", 1)
	p.CellsNulled("2bd", 2)
	p.ProviderCalls("ok", 5)
	p.CacheHits(7)
	p.RunFinished("2bd", "ok", time.Second, 4)
	p.RunFinished("3bd", "failed", time.Second, 0)

	families, err := reg.Gather()
	rq.NoError(err)
	rq.Len(families, 6)

	count, err := testutil.GatherAndCount(reg, "rent_radar_rows_dropped_total")
	rq.NoError(err)
	rq.Equal(2, count)

	count, err = testutil.GatherAndCount(reg, "rent_radar_considered_listings")
	rq.NoError(err)
	rq.Equal(1, count)
}
