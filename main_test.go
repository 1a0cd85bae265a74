//go:build !integration

package s3stream

import (
	"testing"

	"go.uber.org/goleak"
)

// Container-backed tests leave reaper goroutines behind, so leak checking only
// runs for the unit suite.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
