package schema

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// indianPrinter groups digits the en-IN way (12,34,567).
var indianPrinter = message.NewPrinter(language.MustParse("en-IN"))

// GroupIndian formats an integer amount with en-IN digit grouping.
// Amounts past the int64 range are formatted from the float directly.
func GroupIndian(v float64) string {
	r := math.Round(v)
	if r >= math.MaxInt64 || r <= math.MinInt64 {
		return indianPrinter.Sprintf("%.0f", r)
	}
	return indianPrinter.Sprintf("%d", int64(r))
}

// FormatINR renders an amount as rupees with no fractional digits, e.g. ₹45,00,000.
func FormatINR(v float64) string {
	if v < 0 {
		return "-₹" + GroupIndian(-v)
	}
	return "₹" + GroupIndian(v)
}

// FormatINRShort renders an amount in lakh/crore shorthand (₹45L, ₹1.2Cr).
func FormatINRShort(v float64) string {
	switch {
	case v >= 1e7:
		return "₹" + strconv.FormatFloat(math.Round(v/1e7*10)/10, 'f', -1, 64) + "Cr"
	case v >= 1e5:
		return "₹" + strconv.FormatFloat(math.Round(v/1e5), 'f', -1, 64) + "L"
	default:
		return FormatINR(v)
	}
}

// MatchPercent scales a raw score onto the display percentage.
func MatchPercent(score float64) int {
	return int(math.Round(score / MatchDenominator * 100))
}

// WalkMinutes converts a transit distance into rounded walking minutes.
// It returns false when the distance is unknown.
func WalkMinutes(km *float64) (int, bool) {
	if km == nil || math.IsNaN(*km) || math.IsInf(*km, 0) {
		return 0, false
	}
	return int(math.Round(*km * WalkMinutesPerKm)), true
}

// FormatOptional renders an optional number without trailing zeros, or fallback when unset.
func FormatOptional(v *float64, fallback string) string {
	if v == nil {
		return fallback
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
