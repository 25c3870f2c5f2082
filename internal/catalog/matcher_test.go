package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func product(id, name, price string) Product {
	return Product{ID: id, Name: name, Price: decimal.RequireFromString(price), StockQuantity: 10}
}

func testIndex() *Index {
	return NewIndex([]Product{
		product("1", "Fruit Cake 500gm", "12.50"),
		product("2", "Panettone Classic 1000gm Deluxe", "28.00"),
		product("3", "Chocolate Chip Cookies", "6.00"),
		product("4", "Almond Cookies Tin", "9.00"),
		product("5", "Pineapple Tarts", "15.00"),
	})
}

func TestMatcherTiers(t *testing.T) {
	ix := testIndex()
	m := NewMatcher()

	tests := []struct {
		name   string
		input  string
		wantID string
		want   MatchType
	}{
		{"exact", "Fruit Cake 500gm", "1", MatchExact},
		{"exact normalized", "  fruit cake 500gm ", "1", MatchExactNormalized},
		{"substring in product", "Panettone Classic - 1000gm", "2", MatchSubstringInProduct},
		{"product in substring", "Pineapple Tarts (box of 20)", "5", MatchProductInSubstring},
		{"multi word", "cookies chocolate", "3", MatchMultiWord},
		{"partial word", "tart pineapples", "5", MatchPartialWord},
		{"no match", "Lucky Draw Ticket", "", MatchNone},
		{"empty", "   ", "", MatchNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(ix, tt.input)
			require.Equal(t, tt.want, got.Type)
			if tt.wantID == "" {
				require.Nil(t, got.Product)
				return
			}
			require.NotNil(t, got.Product)
			require.Equal(t, tt.wantID, got.Product.ID)
		})
	}
}

func TestWordOverlapTieKeepsCatalogOrder(t *testing.T) {
	ix := NewIndex([]Product{
		product("a", "Butter Cookies", "5"),
		product("b", "Coconut Cookies", "5"),
	})

	got := NewMatcher().Match(ix, "cookies assorted")
	require.Equal(t, MatchPartialWord, got.Type)
	require.Equal(t, "a", got.Product.ID)
}

func TestWordOverlapPrefersHigherScore(t *testing.T) {
	ix := NewIndex([]Product{
		product("a", "Butter Cookies", "5"),
		product("b", "Almond Butter Cookies", "7"),
	})

	got := NewMatcher().Match(ix, "cookies almond butter jar")
	require.Equal(t, MatchMultiWord, got.Type)
	require.Equal(t, "b", got.Product.ID)
}

func TestSubstringFirstCatalogEntryWins(t *testing.T) {
	ix := NewIndex([]Product{
		product("a", "Kaya Jar Large", "5"),
		product("b", "Kaya Jar", "4"),
	})

	got := NewMatcher().Match(ix, "kaya jar!")
	require.Equal(t, MatchSubstringInProduct, got.Type)
	require.Equal(t, "a", got.Product.ID)
}

func TestMatcherEmptyCatalog(t *testing.T) {
	got := NewMatcher().Match(NewIndex(nil), "Fruit Cake 500gm")
	require.Equal(t, MatchNone, got.Type)
	require.False(t, got.Matched())

	got = NewMatcher().Match(nil, "Fruit Cake 500gm")
	require.Equal(t, MatchNone, got.Type)
}

func TestMatcherCustomChain(t *testing.T) {
	ix := testIndex()
	m := NewMatcher(StrategyFunc(ExactName))

	require.Equal(t, MatchExact, m.Match(ix, "Fruit Cake 500gm").Type)
	require.Equal(t, MatchNone, m.Match(ix, "fruit cake 500gm").Type)
}
