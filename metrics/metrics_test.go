package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CounterVecs(t *testing.T) {
	tests := []struct {
		name  string
		inc   func(label string)
		read  func(label string) float64
		label string
		incN  int
	}{
		{
			name:  "requests success",
			inc:   func(l string) { RequestsTotal.WithLabelValues(l).Inc() },
			read:  func(l string) float64 { return testutil.ToFloat64(RequestsTotal.WithLabelValues(l)) },
			label: "SUCCESS",
			incN:  1,
		},
		{
			name:  "requests failure",
			inc:   func(l string) { RequestsTotal.WithLabelValues(l).Inc() },
			read:  func(l string) float64 { return testutil.ToFloat64(RequestsTotal.WithLabelValues(l)) },
			label: "FAILURE",
			incN:  2,
		},
		{
			name:  "crunch burp",
			inc:   func(l string) { CrunchesTotal.WithLabelValues(l).Inc() },
			read:  func(l string) float64 { return testutil.ToFloat64(CrunchesTotal.WithLabelValues(l)) },
			label: "Burp",
			incN:  3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.read(tt.label)
			for i := 0; i < tt.incN; i++ {
				tt.inc(tt.label)
			}
			assert.Equal(t, float64(tt.incN), tt.read(tt.label)-before)
		})
	}
}

func TestMetrics_RequestDuration(t *testing.T) {
	RequestDuration.Observe(0.25)
	count := testutil.CollectAndCount(RequestDuration)
	assert.Greater(t, count, 0, "histogram not collected; count=%#v", count)
}

func TestMetrics_TummySize(t *testing.T) {
	TummySize.Set(4)
	assert.Equal(t, float64(4), testutil.ToFloat64(TummySize))
}

func TestRegister_ServesMetrics(t *testing.T) {
	mux := http.NewServeMux()
	Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "cruncher_tummy_size"), "body missing gauge")
}
