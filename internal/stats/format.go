// Package stats turns upstream statistics payloads into display-ready view
// models. Everything here is a pure function of its input.
package stats

import (
	"fmt"
	"math"
	"strconv"
)

const (
	TopListSize     = 10
	RankingCardSize = 5
)

func usable(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

// FormatRate renders a [0,1] ratio as a percentage with one decimal.
// Missing or NaN ratios render as "0.0%".
func FormatRate(v *float64) string {
	f, ok := usable(v)
	if !ok {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatAverage renders per-match or per-game averages with two decimals.
func FormatAverage(v *float64) string {
	f, ok := usable(v)
	if !ok {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", f)
}

// FormatCount renders a plain value without trailing zeros.
func FormatCount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Share renders part/total as a percentage; a zero total renders "0.0%".
func Share(part, total int) string {
	if total <= 0 {
		return "0.0%"
	}
	r := float64(part) / float64(total)
	return FormatRate(&r)
}
