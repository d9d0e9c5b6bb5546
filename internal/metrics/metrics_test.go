package metrics_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"landreg/internal/metrics"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.ObserveChainRequest("resource", metrics.OutcomeOK, time.Millisecond)
	m.ObserveResolution("get_parcel", "view", metrics.OutcomeOK)
	m.ObserveSubmission("approve", metrics.OutcomeOK)
}

func TestCountersAndTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveChainRequest("resource", metrics.OutcomeOK, 10*time.Millisecond)
	m.ObserveChainRequest("resource", metrics.OutcomeOK, 20*time.Millisecond)
	m.ObserveSubmission("approve", metrics.OutcomeError)

	require.Equal(t, 2.0, testutil.ToFloat64(m.ChainRequests.WithLabelValues("resource", metrics.OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("approve", metrics.OutcomeError)))

	path := filepath.Join(t.TempDir(), "landreg.prom")
	require.NoError(t, metrics.WriteTextfile(path, reg))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(b), "landreg_chain_requests_total"))
}
