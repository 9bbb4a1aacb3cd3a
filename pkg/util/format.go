package util

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatAmount renders v with thousands separators and two correctly rounded
// decimals, e.g. 1234567.891 -> "1,234,567.89". Values beyond int64 keep
// their sign and digits.
func FormatAmount(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	digits := strconv.FormatFloat(v, 'f', 2, 64)
	sign := ""
	if rest, ok := strings.CutPrefix(digits, "-"); ok {
		sign, digits = "-", rest
	}
	whole, frac, _ := strings.Cut(digits, ".")
	n, _ := new(big.Int).SetString(whole, 10)
	return sign + humanize.BigComma(n) + "." + frac
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
