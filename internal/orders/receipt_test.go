package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time { return time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC) }

func TestReceiptAllocate(t *testing.T) {
	a := NewReceiptAllocator(fixedClock)

	o := Order{Items: []LineItem{{ProductName: "Fruit Cake 500gm", Quantity: 1}}}
	n, ok, err := a.Allocate(o, 6)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ECSS/FR/007/25", n)
	require.Regexp(t, ReceiptPattern, n)

	o.Items = append(o.Items, LineItem{ProductName: "Chocolate PANETTONE 750gm", Quantity: 2})
	n, ok, err = a.Allocate(o, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ECSS/Panettone/001/25", n)
	require.Regexp(t, ReceiptPattern, n)
}

func TestReceiptAllocateKeepsExisting(t *testing.T) {
	a := NewReceiptAllocator(fixedClock)
	o := Order{ReceiptNumber: "ECSS/FR/007/25"}

	n, ok, err := a.Allocate(o, 41)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "ECSS/FR/007/25", n)
}

func TestReceiptAllocateSequenceBoundary(t *testing.T) {
	a := NewReceiptAllocator(fixedClock)

	n, ok, err := a.Allocate(Order{}, 998)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ECSS/FR/999/25", n)
	require.Regexp(t, ReceiptPattern, n)

	for _, pos := range []int{999, 5000, -1} {
		n, ok, err = a.Allocate(Order{}, pos)
		require.ErrorIs(t, err, ErrReceiptSequenceExhausted, "position %d", pos)
		require.False(t, ok)
		require.Empty(t, n)
	}

	// an existing number is kept regardless of position
	n, ok, err = a.Allocate(Order{ReceiptNumber: "ECSS/FR/042/25"}, 1500)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, "ECSS/FR/042/25", n)
}

func TestReceiptAllocateZeroValue(t *testing.T) {
	n, ok, err := ReceiptAllocator{}.Allocate(Order{}, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Regexp(t, ReceiptPattern, n)
}
