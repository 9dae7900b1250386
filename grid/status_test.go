package grid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	free := Status{X: 1, Y: 2, Color: Color{0xff, 0, 0xff}, State: Free}
	assert.Equal(t, "(1,2) #ff00ff free", free.String())

	held := Status{X: 16, Y: 16, Color: Color{0, 0x80, 0}, State: Held, Remaining: 299500}
	assert.Equal(t, "(16,16) #008000 held, 4m59.5s remaining", held.String())
}

func TestColor_ParseHex(t *testing.T) {
	c, err := ParseColor("#ff00ff")
	require.NoError(t, err)
	assert.Equal(t, Color{255, 0, 255}, c)
	assert.Equal(t, "#ff00ff", c.Hex())

	c, err = ParseColor(" 0A0b0C ")
	require.NoError(t, err)
	assert.Equal(t, Color{10, 11, 12}, c)

	for _, bad := range []string{"", "#fff", "#gg0000", "#ff00ff00"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestDuration_Std(t *testing.T) {
	assert.Equal(t, "5m0s", Duration(300000).String())
	assert.Equal(t, "0s", Duration(0).String())
	// 超出 time.Duration 范围时截断
	assert.Equal(t, int64(1<<63-1), int64(Duration(^uint64(0)).Std()))
}

func TestLeaseState(t *testing.T) {
	assert.Equal(t, Free, LeaseStateAt(10, 10))
	assert.Equal(t, Free, LeaseStateAt(10, 11))
	assert.Equal(t, Held, LeaseStateAt(10, 9))
	assert.Equal(t, "free", Free.String())
	assert.Equal(t, "held", Held.String())
}

func TestRender(t *testing.T) {
	g, err := New(4, 2, 0, testParams)
	require.NoError(t, err)
	_, err = g.Claim(context.Background(), 1, 1, 0, testParams.MinPayment, red)
	require.NoError(t, err)
	_, err = g.Claim(context.Background(), 4, 2, 0, testParams.MinPayment, blue)
	require.NoError(t, err)

	assert.Equal(t, []string{"#...", "...#"}, g.Render(0))
	assert.Equal(t, []string{"....", "...."}, g.Render(Instant(testParams.MinHold)))
}
