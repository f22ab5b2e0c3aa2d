package gemini

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitDimension(t *testing.T) {
	t.Run("PassthroughWhenExact", func(t *testing.T) {
		in := []float32{0.6, 0.8}
		out, err := fitDimension(in, 2)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("TruncatesAndRenormalizes", func(t *testing.T) {
		// A 3072-dim style response cut down to the column width must come
		// back unit length so cosine distances stay comparable.
		in := make([]float32, 8)
		for i := range in {
			in[i] = float32(i + 1)
		}
		out, err := fitDimension(in, 4)
		require.NoError(t, err)
		require.Len(t, out, 4)

		var sum float64
		for _, v := range out {
			sum += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)

		// Leading components keep their relative order.
		assert.Less(t, out[0], out[1])
		assert.Less(t, out[1], out[2])
	})

	t.Run("ErrorWhenTooShort", func(t *testing.T) {
		_, err := fitDimension([]float32{1, 2}, 4)
		assert.Error(t, err)
	})

	t.Run("ZeroVector", func(t *testing.T) {
		out, err := fitDimension(make([]float32, 8), 4)
		require.NoError(t, err)
		assert.Equal(t, make([]float32, 4), out)
	})
}
