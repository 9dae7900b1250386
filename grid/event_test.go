package grid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySink(t *testing.T) {
	g := newTestGrid(t)
	sink := &MemorySink{}
	g.SetSink(sink)

	_, err := g.Claim(context.Background(), 2, 3, 10, testParams.MinPayment+100, red)
	require.NoError(t, err)
	_, err = g.Claim(context.Background(), 2, 3, 10, testParams.MinPayment, blue)
	require.Error(t, err)

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, ClaimEvent{
		X:       2,
		Y:       3,
		Color:   red,
		Expiry:  10 + Instant(testParams.MinHold) + 10,
		Payment: testParams.MinPayment + 100,
		At:      10,
	}, events[0])

	// 返回副本
	events[0].X = 99
	assert.Equal(t, uint32(2), sink.Events()[0].X)
}

func TestMultiSink_JoinsErrors(t *testing.T) {
	a, b := &MemorySink{}, &MemorySink{}
	ms := MultiSink{a, failSink{}, b}
	err := ms.Append(context.Background(), ClaimEvent{X: 1})
	assert.EqualError(t, err, "sink down")
	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)
	assert.NoError(t, MultiSink{a}.Append(context.Background(), ClaimEvent{}))
}
