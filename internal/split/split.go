// Package split converts raw per-member share values for a single item into
// exact currency amounts that sum to the item's price.
//
// Shares are mode-ambiguous: clients submit fractions of the price, absolute
// amounts, relative weights, or nothing at all, without declaring which. The
// mode is inferred from the values themselves through an ordered decision
// table, the amounts are rounded to cents, and any rounding residual is
// folded into the first entry so the sum always matches the price exactly.
package split

import "github.com/shopspring/decimal"

// Mode identifies how a list of raw shares is interpreted.
type Mode int

const (
	// ModeZero: no entries, or the price is not positive. Every amount is 0.
	ModeZero Mode = iota
	// ModeEqual: every share is zero, so no preference was expressed and the
	// price is divided equally.
	ModeEqual
	// ModeFraction: shares are fractions of the price (summing to roughly 1).
	ModeFraction
	// ModeCurrency: shares are already absolute amounts approximately summing
	// to the price; they are only re-rounded.
	ModeCurrency
	// ModeWeight: shares are relative weights, scaled so the amounts sum to
	// the price.
	ModeWeight
)

func (m Mode) String() string {
	switch m {
	case ModeZero:
		return "zero"
	case ModeEqual:
		return "equal"
	case ModeFraction:
		return "fraction"
	case ModeCurrency:
		return "currency"
	case ModeWeight:
		return "weight"
	}
	return "unknown"
}

// Tunable inference thresholds. The values come from observed client noise
// (UI sliders emit fraction sets summing to 0.999 or 1.003, hand-typed
// amounts rarely hit the price to the cent); they carry no deeper meaning
// and exist only to keep inference stable on real input.
var (
	// fractionCeiling is the largest share sum still read as fractions of
	// the price.
	fractionCeiling = decimal.RequireFromString("1.0001")
	// currencyMinTolerance and currencyRelTolerance bound how far a share
	// sum may sit from the price and still be read as absolute amounts:
	// whichever of 2 cents or 1% of the price is larger.
	currencyMinTolerance = decimal.RequireFromString("0.02")
	currencyRelTolerance = decimal.RequireFromString("0.01")

	cent = decimal.RequireFromString("0.01")
)

// centPlaces is the currency precision every amount is rounded to.
const centPlaces = 2

type shape struct {
	price decimal.Decimal
	sum   decimal.Decimal
	count int
}

// The inference decision table. Rules are evaluated in order and the first
// match wins; the final rule always matches, so every numeric input lands in
// exactly one mode and inference never fails.
var modeRules = []struct {
	mode    Mode
	matches func(shape) bool
}{
	{ModeZero, func(in shape) bool {
		return in.count == 0 || in.price.Sign() <= 0
	}},
	{ModeEqual, func(in shape) bool {
		return in.sum.IsZero()
	}},
	{ModeFraction, func(in shape) bool {
		return in.sum.LessThanOrEqual(fractionCeiling)
	}},
	{ModeCurrency, func(in shape) bool {
		tolerance := decimal.Max(currencyMinTolerance, in.price.Mul(currencyRelTolerance))
		return in.sum.Sub(in.price).Abs().LessThanOrEqual(tolerance)
	}},
	{ModeWeight, func(shape) bool {
		return true
	}},
}

// Infer returns the interpretation mode for the given price and raw shares.
func Infer(price decimal.Decimal, shares []decimal.Decimal) Mode {
	in := shape{price: price, sum: sum(shares), count: len(shares)}
	for _, rule := range modeRules {
		if rule.matches(in) {
			return rule.mode
		}
	}
	return ModeZero // unreachable: the last rule always matches
}

// Normalize converts raw shares into currency amounts. The result has the
// same length and order as shares, and whenever price > 0 and shares is
// non-empty, the amounts sum to exactly round(price, 2). The rounding
// remainder, when one exists, goes to the first entry in submission order.
func Normalize(price decimal.Decimal, shares []decimal.Decimal) []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(shares))
	mode := Infer(price, shares)

	switch mode {
	case ModeZero:
		for i := range amounts {
			amounts[i] = decimal.Zero
		}
		return amounts

	case ModeEqual:
		base := price.DivRound(decimal.NewFromInt(int64(len(shares))), centPlaces)
		for i := range amounts {
			amounts[i] = base
		}

	case ModeFraction:
		for i, s := range shares {
			amounts[i] = s.Mul(price).Round(centPlaces)
		}

	case ModeCurrency:
		for i, s := range shares {
			amounts[i] = s.Round(centPlaces)
		}

	case ModeWeight:
		total := sum(shares)
		for i, s := range shares {
			amounts[i] = s.Div(total).Mul(price).Round(centPlaces)
		}
	}

	correctResidual(price, amounts)
	return amounts
}

// correctResidual forces the sum-equals-price invariant at cent precision by
// adding the rounding remainder to the first entry.
func correctResidual(price decimal.Decimal, amounts []decimal.Decimal) {
	if len(amounts) == 0 {
		return
	}
	diff := price.Sub(sum(amounts)).Round(centPlaces)
	if diff.Abs().GreaterThanOrEqual(cent) {
		amounts[0] = amounts[0].Add(diff).Round(centPlaces)
	}
}

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
