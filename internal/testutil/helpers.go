package testutil

import (
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// StringPtr returns a pointer to the given string.
func StringPtr(s string) *string {
	return aws.String(s)
}

// Int64Ptr returns a pointer to the given int64.
func Int64Ptr(i int64) *int64 {
	return aws.Int64(i)
}

// TimePtr returns a pointer to the given time.
func TimePtr(t time.Time) *time.Time {
	return &t
}

// GenerateRandomData generates random bytes of the specified size.
func GenerateRandomData(size int) []byte {
	data := make([]byte, size)
	r := rand.New(rand.NewSource(int64(size)))
	_, _ = r.Read(data)
	return data
}

// GeneratePatternData generates size bytes where byte i is i mod 251, so that
// misplaced or reordered regions are detectable on comparison.
func GeneratePatternData(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

// Chunk splits data into consecutive slices of at most size bytes.
func Chunk(data []byte, size int) [][]byte {
	var chunks [][]byte
	for len(data) > 0 {
		n := min(size, len(data))
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	return chunks
}
