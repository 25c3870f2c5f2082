package orders

import (
	"testing"

	"github.com/ariefcatur/go-fundraising-orders/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sampleOrder(status Status, mode CollectionMode) Order {
	return Order{
		ID:             "ord-1",
		Status:         status,
		CollectionMode: mode,
		Items: []LineItem{
			{ProductName: "Fruit Cake 500gm", Quantity: 3, Price: decimal.RequireFromString("12.50")},
			{ProductName: "Kaya Jar", Quantity: 1, Price: decimal.RequireFromString("4")},
		},
	}
}

var allowed = map[CollectionMode]map[Status][]Status{
	Delivery: {
		StatusPending:   {StatusPaid, StatusCancelled},
		StatusPaid:      {StatusCancelled, StatusDelivered},
		StatusCollected: {StatusPending, StatusPaid, StatusDelivered, StatusCancelled},
		StatusDelivered: {StatusPending, StatusPaid, StatusCollected, StatusCancelled},
		StatusCancelled: {StatusPending, StatusPaid, StatusCancelled, StatusRefunded},
		StatusRefunded:  {},
	},
	SelfCollection: {
		StatusPending:   {StatusPaid, StatusCancelled},
		StatusPaid:      {StatusCancelled, StatusCollected},
		StatusCollected: {StatusPending, StatusPaid, StatusDelivered, StatusCancelled},
		StatusDelivered: {StatusPending, StatusPaid, StatusCollected, StatusCancelled},
		StatusCancelled: {StatusPending, StatusPaid, StatusCancelled, StatusRefunded},
		StatusRefunded:  {},
	},
}

func TestTransitionGraphExhaustive(t *testing.T) {
	for mode, table := range allowed {
		for _, from := range AllStatuses {
			for _, to := range AllStatuses {
				want := false
				for _, s := range table[from] {
					if s == to {
						want = true
					}
				}

				o := sampleOrder(from, mode)
				d := Transition(o, to)
				require.Equal(t, want, d.Accepted, "%s: %s -> %s", mode, from, to)
				if !want {
					require.Equal(t, from, d.Next())
					require.Empty(t, d.StockOps)
					require.False(t, d.AllocateReceipt)
				}
			}
		}
	}
}

func TestTransitionPendingToPaid(t *testing.T) {
	o := sampleOrder(StatusPending, SelfCollection)
	d := Transition(o, StatusPaid)

	require.True(t, d.Accepted)
	require.Equal(t, StatusPaid, d.Next())
	require.True(t, d.AllocateReceipt)
	require.Len(t, d.StockOps, len(o.Items))
	for i, op := range d.StockOps {
		require.Equal(t, StockReduce, op.Method)
		require.Equal(t, o.Items[i].Quantity, op.Quantity)
		require.Equal(t, o.Items[i].ProductName, op.ProductName)
	}
}

func TestTransitionPendingToDeliveredRejected(t *testing.T) {
	d := Transition(sampleOrder(StatusPending, Delivery), StatusDelivered)
	require.False(t, d.Accepted)
	require.Equal(t, StatusPending, d.Next())
	require.Empty(t, d.StockOps)
}

func TestTransitionPaidToDeliveredHasNoStockEffect(t *testing.T) {
	d := Transition(sampleOrder(StatusPaid, Delivery), StatusDelivered)
	require.True(t, d.Accepted)
	require.Empty(t, d.StockOps)
	require.False(t, d.AllocateReceipt)

	d = Transition(sampleOrder(StatusPaid, Delivery), StatusCollected)
	require.False(t, d.Accepted, "delivery orders are never collected straight from Paid")
}

func TestTransitionCancelRestoresStockOnlyFromPaid(t *testing.T) {
	d := Transition(sampleOrder(StatusPaid, Delivery), StatusCancelled)
	require.True(t, d.Accepted)
	require.Len(t, d.StockOps, 2)
	for _, op := range d.StockOps {
		require.Equal(t, StockIncrease, op.Method)
	}

	d = Transition(sampleOrder(StatusPending, Delivery), StatusCancelled)
	require.True(t, d.Accepted)
	require.Empty(t, d.StockOps)

	d = Transition(sampleOrder(StatusCancelled, Delivery), StatusCancelled)
	require.True(t, d.Accepted)
	require.Empty(t, d.StockOps)
}

func TestTransitionRefundIncreasesStock(t *testing.T) {
	o := sampleOrder(StatusCancelled, SelfCollection)
	d := Transition(o, StatusRefunded)
	require.True(t, d.Accepted)
	require.Len(t, d.StockOps, len(o.Items))
	for i, op := range d.StockOps {
		require.Equal(t, StockIncrease, op.Method)
		require.Equal(t, o.Items[i].Quantity, op.Quantity)
	}
}

func TestTransitionRepaidKeepsReceipt(t *testing.T) {
	o := sampleOrder(StatusPaid, SelfCollection)
	o.ReceiptNumber = "ECSS/FR/007/25"

	d := Transition(o, StatusCancelled)
	require.True(t, d.Accepted)
	o.Status = d.Next()

	d = Transition(o, StatusPaid)
	require.True(t, d.Accepted)
	require.False(t, d.AllocateReceipt)
	require.Len(t, d.StockOps, 2)
	require.Equal(t, StockReduce, d.StockOps[0].Method)
}

func TestTransitionBackwardFlag(t *testing.T) {
	require.True(t, Transition(sampleOrder(StatusDelivered, Delivery), StatusPending).Backward)
	require.True(t, Transition(sampleOrder(StatusCollected, SelfCollection), StatusPaid).Backward)
	require.False(t, Transition(sampleOrder(StatusCollected, SelfCollection), StatusDelivered).Backward)
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("Refunded")
	require.True(t, ok)
	require.Equal(t, StatusRefunded, s)

	_, ok = ParseStatus("refunded")
	require.False(t, ok)
}

func TestTransitionStockIDsOnlyFromExactMatches(t *testing.T) {
	o := Order{Status: StatusPending, CollectionMode: Delivery, Items: []LineItem{
		{ProductName: "Fruit Cake 500gm", Quantity: 1, MatchedProductID: "1", MatchType: catalog.MatchExact},
		{ProductName: "fruit cake 500gm", Quantity: 1, MatchedProductID: "1", MatchType: catalog.MatchExactNormalized},
		{ProductName: "Panettone Classic - 1000gm", Quantity: 1, MatchedProductID: "2", MatchType: catalog.MatchSubstringInProduct},
		{ProductName: "Coconut-free cookies", Quantity: 2, MatchedProductID: "b", MatchType: catalog.MatchMultiWord},
	}}

	d := Transition(o, StatusPaid)
	require.True(t, d.Accepted)
	require.Equal(t, "1", d.StockOps[0].ProductID)
	require.Equal(t, "1", d.StockOps[1].ProductID)
	require.Empty(t, d.StockOps[2].ProductID)
	require.Empty(t, d.StockOps[3].ProductID)
}
