// Package metrics exports streaming upload activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/s3types"
)

// Recorder implements s3types.UploadRecorder on top of Prometheus collectors.
type Recorder struct {
	partsTotal       prometheus.Counter
	partFailures     prometheus.Counter
	partBytesTotal   prometheus.Counter
	partDuration     prometheus.Histogram
	uploadsFinished  *prometheus.CounterVec
	uploadBytesTotal prometheus.Counter
}

// NewRecorder registers the upload collectors with reg and returns a recorder.
// Pass prometheus.DefaultRegisterer to expose them on the default handler.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		partsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "s3stream_parts_uploaded_total",
			Help: "Total number of multipart parts acknowledged by the object store",
		}),
		partFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "s3stream_part_failures_total",
			Help: "Total number of multipart parts rejected by the object store",
		}),
		partBytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "s3stream_part_bytes_total",
			Help: "Total bytes sent in acknowledged multipart parts",
		}),
		partDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "s3stream_part_upload_duration_seconds",
			Help:    "Duration of single part uploads in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		uploadsFinished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3stream_uploads_finished_total",
				Help: "Total number of streaming uploads that reached a terminal state",
			},
			[]string{"status"},
		),
		uploadBytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "s3stream_upload_accepted_bytes_total",
			Help: "Total bytes accepted by streaming uploads that reached a terminal state",
		}),
	}
}

// PartUploaded records an acknowledged part.
func (r *Recorder) PartUploaded(size int64, duration time.Duration) {
	r.partsTotal.Inc()
	r.partBytesTotal.Add(float64(size))
	r.partDuration.Observe(duration.Seconds())
}

// PartFailed records a rejected part.
func (r *Recorder) PartFailed() {
	r.partFailures.Inc()
}

// UploadFinished records a terminal upload state.
func (r *Recorder) UploadFinished(status string, uploadedBytes int64) {
	r.uploadsFinished.WithLabelValues(status).Inc()
	r.uploadBytesTotal.Add(float64(uploadedBytes))
}

var _ s3types.UploadRecorder = (*Recorder)(nil)
