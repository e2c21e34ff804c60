package production

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func TestProducible(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	tests := []struct {
		name  string
		lines []Line
		stock Stock
		want  int64
	}{
		{
			name:  "most constraining material wins",
			lines: []Line{{a, dec("2")}, {b, dec("3")}},
			stock: Stock{a: dec("20"), b: dec("15")},
			want:  5,
		},
		{
			name:  "insufficient stock floors to zero",
			lines: []Line{{a, dec("10")}},
			stock: Stock{a: dec("5")},
			want:  0,
		},
		{
			name:  "three materials",
			lines: []Line{{a, dec("1")}, {b, dec("2")}, {c, dec("5")}},
			stock: Stock{a: dec("50"), b: dec("50"), c: dec("50")},
			want:  10,
		},
		{
			name:  "empty bill of materials",
			lines: nil,
			stock: Stock{a: dec("20")},
			want:  0,
		},
		{
			name:  "missing material binds to zero",
			lines: []Line{{a, dec("1")}, {uuid.New(), dec("2")}},
			stock: Stock{a: dec("20")},
			want:  0,
		},
		{
			name:  "zero requirement does not constrain",
			lines: []Line{{a, dec("0")}, {b, dec("4")}},
			stock: Stock{b: dec("9")},
			want:  2,
		},
		{
			name:  "only zero requirements produce nothing",
			lines: []Line{{a, dec("0")}},
			stock: Stock{a: dec("10")},
			want:  0,
		},
		{
			name:  "missing material with zero requirement is ignored",
			lines: []Line{{uuid.New(), dec("0")}, {a, dec("3")}},
			stock: Stock{a: dec("9")},
			want:  3,
		},
		{
			name:  "fractional quantities",
			lines: []Line{{a, dec("0.25")}},
			stock: Stock{a: dec("1.1")},
			want:  4,
		},
		{
			name:  "negative stock counts as zero",
			lines: []Line{{a, dec("1")}},
			stock: Stock{a: dec("-4")},
			want:  0,
		},
		{
			name:  "exact multiple",
			lines: []Line{{a, dec("0.1")}},
			stock: Stock{a: dec("0.3")},
			want:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Producible(tt.lines, tt.stock))
		})
	}
}

func TestAllowance(t *testing.T) {
	a := uuid.New()

	units, ok := Allowance(Line{a, dec("3")}, Stock{a: dec("10")})
	assert.True(t, ok)
	assert.Equal(t, int64(3), units)

	_, ok = Allowance(Line{a, dec("0")}, Stock{a: dec("10")})
	assert.False(t, ok)
}

func TestValue(t *testing.T) {
	assertDecimal(t, "500", Value(5, dec("100.00")))
	assertDecimal(t, "0", Value(0, dec("19.99")))
	assertDecimal(t, "59.97", Value(3, dec("19.99")))
}

func TestCapacityIsIndependentPerProduct(t *testing.T) {
	a := uuid.New()
	stock := Stock{a: dec("100")}
	items := []Item{
		{Code: "P1", Price: dec("10"), Lines: []Line{{a, dec("10")}}},
		{Code: "P2", Price: dec("50"), Lines: []Line{{a, dec("20")}}},
	}

	results := Capacity(items, stock)

	require.Len(t, results, 2)
	assert.Equal(t, "P1", results[0].Code)
	assert.Equal(t, int64(10), results[0].ProducibleQuantity)
	assertDecimal(t, "100", results[0].TotalValue)
	assert.Equal(t, "P2", results[1].Code)
	assert.Equal(t, int64(5), results[1].ProducibleQuantity)
	assertDecimal(t, "250", results[1].TotalValue)
	assertDecimal(t, "100", stock[a])
}

func TestSuggestPrioritizesByPrice(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	stock := Stock{a: dec("100"), b: dec("60"), c: dec("30")}
	items := []Item{
		{Code: "LOW", Price: dec("50.00"), Lines: []Line{{c, dec("10")}}},
		{Code: "HIGH", Price: dec("200.00"), Lines: []Line{{a, dec("10")}}},
		{Code: "MID", Price: dec("100.00"), Lines: []Line{{b, dec("10")}}},
	}

	results := Suggest(items, stock)

	require.Len(t, results, 3)
	assert.Equal(t, []string{"HIGH", "MID", "LOW"}, []string{results[0].Code, results[1].Code, results[2].Code})
	assert.Equal(t, int64(10), results[0].ProducibleQuantity)
	assertDecimal(t, "2000", results[0].TotalValue)
	assert.Equal(t, int64(6), results[1].ProducibleQuantity)
	assertDecimal(t, "600", results[1].TotalValue)
	assert.Equal(t, int64(3), results[2].ProducibleQuantity)
	assertDecimal(t, "150", results[2].TotalValue)
}

func TestSuggestConsumesSharedMaterial(t *testing.T) {
	a := uuid.New()
	stock := Stock{a: dec("100")}
	items := []Item{
		{Code: "MID", Price: dec("100"), Lines: []Line{{a, dec("10")}}},
		{Code: "HIGH", Price: dec("200"), Lines: []Line{{a, dec("5")}}},
	}

	results := Suggest(items, stock)

	require.Len(t, results, 2)
	assert.Equal(t, "HIGH", results[0].Code)
	assert.Equal(t, int64(20), results[0].ProducibleQuantity)
	assert.Equal(t, "MID", results[1].Code)
	assert.Equal(t, int64(0), results[1].ProducibleQuantity)
	assertDecimal(t, "100", stock[a])
}

func TestSuggestLeavesRemainderForCheaperProducts(t *testing.T) {
	a := uuid.New()
	stock := Stock{a: dec("25")}
	items := []Item{
		{Code: "A", Price: dec("30"), Lines: []Line{{a, dec("10")}}},
		{Code: "B", Price: dec("10"), Lines: []Line{{a, dec("2")}}},
	}

	results := Suggest(items, stock)

	assert.Equal(t, int64(2), results[0].ProducibleQuantity)
	assert.Equal(t, int64(2), results[1].ProducibleQuantity)
}

func TestSuggestTiesOrderedByCode(t *testing.T) {
	items := []Item{
		{Code: "B", Price: dec("10")},
		{Code: "A", Price: dec("10")},
	}

	results := Suggest(items, Stock{})

	assert.Equal(t, "A", results[0].Code)
	assert.Equal(t, "B", results[1].Code)
	assert.Equal(t, int64(0), results[0].ProducibleQuantity)
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{ProducibleQuantity: 2, TotalValue: dec("20.50")},
		{ProducibleQuantity: 3, TotalValue: dec("9")},
	}

	s := Summarize(results)

	assert.Equal(t, 2, s.Products)
	assert.Equal(t, int64(5), s.TotalUnits)
	assertDecimal(t, "29.5", s.TotalValue)
}
