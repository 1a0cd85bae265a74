package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.PartUploaded(5*1024*1024, 120*time.Millisecond)
	r.PartUploaded(1024, 10*time.Millisecond)
	r.PartFailed()
	r.UploadFinished("Completed", 5*1024*1024+1024)
	r.UploadFinished("Aborted", 0)
	r.UploadFinished("Completed", 10)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.partsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.partFailures))
	assert.Equal(t, float64(5*1024*1024+1024), testutil.ToFloat64(r.partBytesTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.uploadsFinished.WithLabelValues("Completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.uploadsFinished.WithLabelValues("Aborted")))
	assert.Equal(t, float64(5*1024*1024+1024+10), testutil.ToFloat64(r.uploadBytesTotal))

	count, err := testutil.GatherAndCount(reg, "s3stream_part_upload_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewRecorder_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)

	assert.Panics(t, func() { NewRecorder(reg) })
}
