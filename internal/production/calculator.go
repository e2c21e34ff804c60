// Package production computes how many units of each product can be built
// from the raw-material stock currently on hand.
//
// Everything here is pure: callers load products and stock, the functions
// only do arithmetic on copies.
package production

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one bill-of-materials entry: Required units of MaterialID are
// consumed per unit of product.
type Line struct {
	MaterialID uuid.UUID
	Required   decimal.Decimal
}

// Stock maps a raw material id to its on-hand quantity.
// A material absent from the map has zero stock.
type Stock map[uuid.UUID]decimal.Decimal

// Clone returns an independent copy so that Suggest can consume it.
func (s Stock) Clone() Stock {
	out := make(Stock, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Item is the calculator's view of a product.
type Item struct {
	ProductID uuid.UUID
	Code      string
	Name      string
	Price     decimal.Decimal
	Lines     []Line
}

// Result annotates an Item with its producible quantity and value.
type Result struct {
	Item
	ProducibleQuantity int64
	TotalValue         decimal.Decimal
}

// Summary aggregates a report.
type Summary struct {
	Products   int
	TotalUnits int64
	TotalValue decimal.Decimal
}

// Allowance is the number of whole units a single line permits.
// ok is false for a line that does not constrain production (required <= 0).
func Allowance(l Line, stock Stock) (units int64, ok bool) {
	if !l.Required.IsPositive() {
		return 0, false
	}
	available := stock[l.MaterialID]
	if !available.IsPositive() {
		return 0, true
	}
	q, _ := available.QuoRem(l.Required, 0)
	return q.IntPart(), true
}

// Producible returns the maximum number of complete units the lines allow:
// the minimum allowance across constraining lines. A BOM with no
// constraining line (empty, or only zero requirements) yields 0.
func Producible(lines []Line, stock Stock) int64 {
	var (
		lowest int64
		bound  bool
	)
	for _, l := range lines {
		units, ok := Allowance(l, stock)
		if !ok {
			continue
		}
		if !bound || units < lowest {
			lowest = units
			bound = true
		}
		if lowest == 0 {
			break
		}
	}
	if !bound {
		return 0
	}
	return lowest
}

// Value is the monetary value of producing qty units at price.
func Value(qty int64, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(qty))
}

// Capacity evaluates every item independently against the full stock.
// Output order matches input order.
func Capacity(items []Item, stock Stock) []Result {
	results := make([]Result, 0, len(items))
	for _, it := range items {
		qty := Producible(it.Lines, stock)
		results = append(results, Result{Item: it, ProducibleQuantity: qty, TotalValue: Value(qty, it.Price)})
	}
	return results
}

// Suggest builds a production plan that favours the most valuable products:
// items are visited by price descending (ties by code) and each item consumes
// the stock it would use before the next one is evaluated. Items that cannot
// be produced are still listed with a zero quantity. stock is not modified.
func Suggest(items []Item, stock Stock) []Result {
	ordered := make([]Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		if c := ordered[i].Price.Cmp(ordered[j].Price); c != 0 {
			return c > 0
		}
		return ordered[i].Code < ordered[j].Code
	})

	working := stock.Clone()
	results := make([]Result, 0, len(ordered))
	for _, it := range ordered {
		qty := Producible(it.Lines, working)
		if qty > 0 {
			consume(it.Lines, qty, working)
		}
		results = append(results, Result{Item: it, ProducibleQuantity: qty, TotalValue: Value(qty, it.Price)})
	}
	return results
}

func consume(lines []Line, qty int64, stock Stock) {
	n := decimal.NewFromInt(qty)
	for _, l := range lines {
		if !l.Required.IsPositive() {
			continue
		}
		if current, ok := stock[l.MaterialID]; ok {
			stock[l.MaterialID] = current.Sub(l.Required.Mul(n))
		}
	}
}

// Summarize totals units and value across results.
func Summarize(results []Result) Summary {
	s := Summary{Products: len(results), TotalValue: decimal.Zero}
	for _, r := range results {
		s.TotalUnits += r.ProducibleQuantity
		s.TotalValue = s.TotalValue.Add(r.TotalValue)
	}
	return s
}
