package indexed

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-tensor/internal/team"
	"github.com/cwbudde/algo-tensor/internal/tensordata"
)

func TestSetAndShift(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		x := tensordata.RandomIndexed[complex64](9, []int{3, 2}, []int{4, 4}, 0.5)
		orig := append([]complex64(nil), x.Data...)

		tm, err := team.New(n)
		require.NoError(t, err)

		require.NoError(t, tm.Run(func(c *team.Comm) {
			Shift(c, 1, 2, true, x)
		}))
		for i, v := range x.Data {
			want := 1 + 2*complex(real(orig[i]), -imag(orig[i]))
			assert.InDelta(t, 0, cmplx.Abs(complex128(v-want)), 1e-6, "workers=%d element %d", n, i)
		}

		require.NoError(t, tm.Run(func(c *team.Comm) {
			Set(c, 3-1i, x)
		}))
		for i, v := range x.Data {
			assert.Equal(t, complex64(3-1i), v, "workers=%d element %d", n, i)
		}
		tm.Close()
	}
}
