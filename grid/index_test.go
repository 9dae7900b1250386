package grid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Bijective(t *testing.T) {
	dims := []struct{ w, h uint32 }{{1, 1}, {16, 16}, {3, 7}, {9, 2}}
	for _, d := range dims {
		seen := make(map[int]bool, d.w*d.h)
		for x := uint32(1); x <= d.w; x++ {
			for y := uint32(1); y <= d.h; y++ {
				idx, err := Index(x, y, d.w, d.h)
				require.NoError(t, err)
				assert.Less(t, idx, int(d.w*d.h))
				assert.False(t, seen[idx], "index %d repeated for (%d,%d)", idx, x, y)
				seen[idx] = true

				bx, by, err := Coord(idx, d.w, d.h)
				require.NoError(t, err)
				assert.Equal(t, x, bx)
				assert.Equal(t, y, by)
			}
		}
		assert.Len(t, seen, int(d.w*d.h))
	}
}

func TestIndex_ColumnMajorLayout(t *testing.T) {
	idx, err := Index(1, 1, 16, 16)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = Index(1, 2, 16, 16)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = Index(2, 1, 16, 16)
	require.NoError(t, err)
	assert.Equal(t, 16, idx)

	idx, err = Index(16, 16, 16, 16)
	require.NoError(t, err)
	assert.Equal(t, 255, idx)
}

func TestIndex_OutOfBounds(t *testing.T) {
	cases := []struct {
		name string
		x, y uint32
	}{
		{"zero x", 0, 1},
		{"zero y", 1, 0},
		{"both zero", 0, 0},
		{"x past width", 17, 1},
		{"y past height", 1, 17},
		{"far away", 1 << 31, 1 << 31},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Index(tc.x, tc.y, 16, 16)
			var oob *OutOfBoundsError
			require.True(t, errors.As(err, &oob))
			assert.Equal(t, &OutOfBoundsError{X: tc.x, Y: tc.y, Width: 16, Height: 16}, oob)
		})
	}
}

func TestCoord_OutOfRange(t *testing.T) {
	_, _, err := Coord(-1, 4, 4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, _, err = Coord(16, 4, 4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, _, err = Coord(0, 4, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
