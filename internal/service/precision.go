package service

import "github.com/shopspring/decimal"

// Column scales of the postgres schema: NUMERIC(14,3) for quantities and
// NUMERIC(12,2) for money. Values with more places are rejected instead of
// being rounded silently by the database.
const (
	quantityPlaces int32 = 3
	moneyPlaces    int32 = 2
)

func checkScale(field string, d decimal.Decimal, places int32) error {
	if !d.Equal(d.Truncate(places)) {
		return errorf(ErrInvalid, "%s allows at most %d decimal places", field, places)
	}
	return nil
}
