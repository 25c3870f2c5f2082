package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/ariefcatur/go-fundraising-orders/internal/catalog"
	"github.com/ariefcatur/go-fundraising-orders/internal/orders"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		method  orders.StockMethod
		stock   int
		qty     int
		want    int
		wantErr error
	}{
		{"add", orders.StockAdd, 5, 3, 8, nil},
		{"increase", orders.StockIncrease, 0, 2, 2, nil},
		{"reduce", orders.StockReduce, 5, 3, 2, nil},
		{"reduce floors at zero", orders.StockReduce, 2, 5, 0, nil},
		{"restock sets level", orders.StockRestock, 40, 12, 12, nil},
		{"restock to zero", orders.StockRestock, 40, 0, 0, nil},
		{"zero add", orders.StockAdd, 5, 0, 5, ErrInvalidQuantity},
		{"negative", orders.StockReduce, 5, -1, 5, ErrInvalidQuantity},
		{"unknown", orders.StockMethod("steal"), 5, 1, 5, ErrUnknownMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.method, tt.stock, tt.qty)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.want, got)
			require.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("restock")
	require.NoError(t, err)
	require.Equal(t, orders.StockRestock, m)

	_, err = ParseMethod("Restock")
	require.ErrorIs(t, err, ErrUnknownMethod)
}

type stubMutationService struct {
	applyFn func(context.Context, Mutation) (MutationResult, error)
	calls   []Mutation
}

func (s *stubMutationService) Apply(ctx context.Context, m Mutation) (MutationResult, error) {
	s.calls = append(s.calls, m)
	if s.applyFn != nil {
		return s.applyFn(ctx, m)
	}
	return MutationResult{ProductID: m.ProductID, OriginalStock: 10, NewStock: 10 - m.Quantity}, nil
}

func TestAdjusterExecuteResolvesProducts(t *testing.T) {
	svc := &stubMutationService{applyFn: func(_ context.Context, m Mutation) (MutationResult, error) {
		if m.ProductID == "3" {
			return MutationResult{}, errors.New("boom")
		}
		return MutationResult{ProductID: m.ProductID, OriginalStock: 10, NewStock: 10 - m.Quantity}, nil
	}}
	a := NewAdjuster(svc, nil, nil)
	ix := catalog.NewIndex([]catalog.Product{
		{ID: "1", Name: "Fruit Cake 500gm"},
		{ID: "3", Name: "Kaya Jar"},
	})

	ops := []orders.StockOperation{
		{Method: orders.StockReduce, ProductName: "whatever", ProductID: "9", Quantity: 1},
		{Method: orders.StockReduce, ProductName: "Fruit Cake 500gm", Quantity: 2},
		{Method: orders.StockReduce, ProductName: "Kaya Jar", Quantity: 1},
		{Method: orders.StockReduce, ProductName: "Unknown Item", Quantity: 4},
	}
	out := a.Execute(context.Background(), ix, "ord-1", ops)

	require.Len(t, out, 4)
	require.True(t, out[0].Applied)
	require.Equal(t, "9", out[0].ProductID)

	require.True(t, out[1].Applied)
	require.Equal(t, "1", out[1].ProductID)
	require.Equal(t, 10, out[1].OriginalStock)
	require.Equal(t, 8, out[1].NewStock)

	require.False(t, out[2].Applied)
	require.Equal(t, "boom", out[2].Error)

	require.False(t, out[3].Applied)
	require.Empty(t, out[3].ProductID)
	require.Equal(t, ErrProductUnresolved.Error(), out[3].Error)

	require.Len(t, svc.calls, 3, "unresolved operation is never sent")
	require.Empty(t, ops[1].ProductID, "input operations are not mutated")
}

func TestAdjusterAdjust(t *testing.T) {
	svc := &stubMutationService{}
	a := NewAdjuster(svc, nil, nil)

	res, err := a.Adjust(context.Background(), "1", orders.StockReduce, 4)
	require.NoError(t, err)
	require.Equal(t, 6, res.NewStock)

	_, err = a.Adjust(context.Background(), "", orders.StockAdd, 1)
	require.ErrorIs(t, err, ErrProductUnresolved)

	_, err = a.Adjust(context.Background(), "1", orders.StockAdd, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	require.Len(t, svc.calls, 1)

	svc.applyFn = func(context.Context, Mutation) (MutationResult, error) { return MutationResult{}, ErrProductNotFound }
	_, err = a.Adjust(context.Background(), "404", orders.StockRestock, 5)
	require.ErrorIs(t, err, ErrProductNotFound)
}
