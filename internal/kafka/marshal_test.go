package kafka

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	OrderID string `json:"order_id"`
	Qty     int    `json:"qty"`
}

func TestUnwrapPayload(t *testing.T) {
	raw := json.RawMessage(MustMarshal(samplePayload{OrderID: "ord-1", Qty: 2}))

	p, err := UnwrapPayload[samplePayload](raw)
	require.NoError(t, err)
	require.Equal(t, samplePayload{OrderID: "ord-1", Qty: 2}, p)

	_, err = UnwrapPayload[samplePayload](json.RawMessage(`{"qty":"x"}`))
	require.ErrorContains(t, err, "decode payload")
}

func TestEventHeaders(t *testing.T) {
	h := EventHeaders("OrderStatusChanged", 1)
	require.Len(t, h, 2)
	require.Equal(t, "x-event-type", h[0].Key)
	require.Equal(t, "OrderStatusChanged", string(h[0].Value))
	require.Equal(t, "1", string(h[1].Value))
}

func TestMustMarshalPanicsOnUnsupported(t *testing.T) {
	require.Panics(t, func() { MustMarshal(make(chan int)) })
}
