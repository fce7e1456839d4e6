// Package amount converts between human-readable decimal token amounts and
// arbitrary-precision raw integer amounts in a token's smallest unit.
package amount

import (
	"math/big"
	"strings"
)

// ToRaw converts a human decimal string (e.g. "12.5") to the token's raw
// integer units at the given decimals, flooring any precision beyond
// decimals. Strings with no decimal point and more than ~10 digits are
// assumed to already be raw and are returned unchanged, matching the
// heuristic the Façade applies to caller-supplied amounts.
func ToRaw(human string, decimals int) *big.Int {
	human = strings.TrimSpace(human)
	if human == "" {
		return big.NewInt(0)
	}
	if !strings.Contains(human, ".") && len(human) > 10 {
		if v, ok := new(big.Int).SetString(human, 10); ok {
			return v
		}
	}

	neg := strings.HasPrefix(human, "-")
	if neg {
		human = human[1:]
	}

	parts := strings.SplitN(human, ".", 2)
	intPart := parts[0]
	if intPart == "" {
		intPart = "0"
	}
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if len(fracPart) > decimals {
		fracPart = fracPart[:decimals] // floor, never round
	}
	for len(fracPart) < decimals {
		fracPart += "0"
	}

	combined := intPart + fracPart
	raw, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return big.NewInt(0)
	}
	if neg {
		raw.Neg(raw)
	}
	return raw
}

// ToHuman renders a raw integer amount as a human decimal string at the
// given decimals, trimming trailing fractional zeros.
func ToHuman(raw *big.Int, decimals int) string {
	if raw == nil {
		return "0"
	}
	neg := raw.Sign() < 0
	abs := new(big.Int).Abs(raw)
	s := abs.String()

	if decimals == 0 {
		if neg {
			return "-" + s
		}
		return s
	}

	for len(s) <= decimals {
		s = "0" + s
	}
	intPart := s[:len(s)-decimals]
	fracPart := strings.TrimRight(s[len(s)-decimals:], "0")

	out := intPart
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// ToFloat converts a raw amount to a float64 at the given decimals using
// big.Float for precision during the division, matching the pattern the
// teacher's quote service used for wei-to-token conversion.
func ToFloat(raw *big.Int, decimals int) float64 {
	if raw == nil {
		return 0
	}
	f := new(big.Float).SetInt(raw)
	divisor := new(big.Float).SetInt(pow10(decimals))
	result := new(big.Float).Quo(f, divisor)
	out, _ := result.Float64()
	return out
}

// USD multiplies a raw token amount (at decimals) by a USD unit price.
func USD(raw *big.Int, decimals int, priceUsd float64) float64 {
	return ToFloat(raw, decimals) * priceUsd
}

// ApplySlippage computes outputAmountMin = floor(outputAmount * (10000 -
// slippageBps) / 10000), the invariant every SwapQuote must satisfy.
func ApplySlippage(outputAmount *big.Int, slippageBps int) *big.Int {
	if outputAmount == nil {
		return big.NewInt(0)
	}
	numerator := new(big.Int).Mul(outputAmount, big.NewInt(10000-int64(slippageBps)))
	return numerator.Div(numerator, big.NewInt(10000))
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
