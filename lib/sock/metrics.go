package sock

import (
	"github.com/VictoriaMetrics/metrics"
)

// Package-level counters for the socket data and lifecycle paths. They are
// exported for scraping via metrics.WritePrometheus (see cmd/echo).
var (
	metricBytesReceived = metrics.NewCounter("rsock_bytes_received_total")
	metricBytesSent     = metrics.NewCounter("rsock_bytes_sent_total")
	metricConnects      = metrics.NewCounter("rsock_connects_total")
	metricDisconnects   = metrics.NewCounter("rsock_disconnects_total")
	metricSendErrors    = metrics.NewCounter("rsock_send_errors_total")
	metricReadErrors    = metrics.NewCounter("rsock_read_errors_total")
)
