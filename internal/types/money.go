// README: Common money value object used across modules.
package types

import "strconv"

// Money is an integer amount in the smallest unit of the given currency.
// Fares in the catalog are whole units, so no sub-unit scaling is applied.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) String() string {
	return strconv.FormatInt(m.Amount, 10) + " " + m.Currency
}
