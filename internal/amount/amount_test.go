package amount

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		human    string
		decimals int
	}{
		{"12.5", 18},
		{"1000", 6},
		{"0.000001", 6},
		{"0", 18},
	}
	for _, tc := range cases {
		raw := ToRaw(tc.human, tc.decimals)
		got := ToHuman(raw, tc.decimals)
		assert.Equal(t, tc.human, got, "round trip for %s at %d decimals", tc.human, tc.decimals)
	}
}

func TestToRawFloorsExcessPrecision(t *testing.T) {
	raw := ToRaw("1.23456789", 4)
	assert.Equal(t, "12345", raw.String())
}

func TestApplySlippage(t *testing.T) {
	out := big.NewInt(1_000_000)
	min := ApplySlippage(out, 100) // 1%
	assert.Equal(t, big.NewInt(990_000), min)
}

func TestToRawTreatsLongIntegerAsRaw(t *testing.T) {
	raw := ToRaw("123456789012345678", 18)
	assert.Equal(t, "123456789012345678", raw.String())
}
