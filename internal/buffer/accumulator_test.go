package buffer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/s3stream/errors"
)

func TestAccumulator_AppendAndTake(t *testing.T) {
	var acc Accumulator

	acc.Append([]byte("hello "))
	acc.Append([]byte("world"))
	assert.Equal(t, 11, acc.Len())

	out, err := acc.TakeFront(nil, 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
	assert.Equal(t, 6, acc.Len())

	out, err = acc.TakeFront(out[:0], 6)
	require.NoError(t, err)
	assert.Equal(t, " world", string(out))
	assert.Equal(t, 0, acc.Len())
}

func TestAccumulator_TakeFrontInsufficient(t *testing.T) {
	var acc Accumulator
	acc.Append([]byte("abc"))

	dst := []byte("keep")
	out, err := acc.TakeFront(dst, 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInsufficientBuffer)
	assert.Equal(t, "keep", string(out))
	assert.Equal(t, 3, acc.Len(), "failed take must not consume data")

	_, err = acc.TakeFront(nil, -1)
	assert.ErrorIs(t, err, errors.ErrInsufficientBuffer)
}

func TestAccumulator_TakeZero(t *testing.T) {
	var acc Accumulator

	out, err := acc.TakeFront(nil, 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAccumulator_EmptyAppend(t *testing.T) {
	var acc Accumulator
	acc.Append(nil)
	acc.Append([]byte{})
	assert.Equal(t, 0, acc.Len())
}

func TestAccumulator_FIFOAcrossCompaction(t *testing.T) {
	var acc Accumulator
	var want bytes.Buffer
	var got bytes.Buffer

	// Interleave appends and partial takes so the unread region has to slide.
	for i := 0; i < 50; i++ {
		chunk := bytes.Repeat([]byte{byte(i)}, 7+i)
		acc.Append(chunk)
		want.Write(chunk)

		for acc.Len() >= 16 {
			out, err := acc.TakeFront(nil, 16)
			require.NoError(t, err)
			got.Write(out)
		}
	}
	rest, err := acc.TakeFront(nil, acc.Len())
	require.NoError(t, err)
	got.Write(rest)

	assert.Equal(t, want.Bytes(), got.Bytes())
}

func TestAccumulator_Reset(t *testing.T) {
	var acc Accumulator
	acc.Append([]byte("data"))
	_, err := acc.TakeFront(nil, 1)
	require.NoError(t, err)

	acc.Reset()
	assert.Equal(t, 0, acc.Len())

	acc.Append([]byte("new"))
	out, err := acc.TakeFront(nil, 3)
	require.NoError(t, err)
	assert.Equal(t, "new", string(out))
}
