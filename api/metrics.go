package api

import (
	"io"
	"net/http"
	"time"

	"github.com/uber-go/tally/v4"
	promreporter "github.com/uber-go/tally/v4/prometheus"

	"github.com/bitmark-inc/geosubmit-api/submit"
)

const (
	metricUploadedBatches = "items_uploaded_batches"
	metricUploadedReports = "items_uploaded_reports"
	metricDroppedReports  = "items_dropped_reports"
	metricRejectedBatches = "items_rejected_batches"
	metricQueueErrors     = "items_queue_errors"
	metricQueueSize       = "queue_size"
	metricSubmitLatency   = "request_v2_geosubmit"
)

// NewMetrics creates a tally root scope reporting to prometheus, together
// with the handler serving the collected metrics.
func NewMetrics(prefix string) (tally.Scope, http.Handler, io.Closer) {
	reporter := promreporter.NewReporter(promreporter.Options{})
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:         prefix,
		Tags:           map[string]string{},
		CachedReporter: reporter,
		Separator:      promreporter.DefaultSeparator,
	}, time.Second)
	return scope, reporter.HTTPHandler(), closer
}

func (s *Server) countAccepted(result submit.Result) {
	s.metrics.Counter(metricUploadedBatches).Inc(1)
	s.metrics.Counter(metricUploadedReports).Inc(int64(result.Accepted))
	if result.Dropped > 0 {
		s.metrics.Counter(metricDroppedReports).Inc(int64(result.Dropped))
	}
}
