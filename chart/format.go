package chart

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ============================================================================
// NUMBER FORMATTING
// ============================================================================

var siPrefixes = []string{"y", "z", "a", "f", "p", "µ", "m", "", "k", "M", "G", "T", "P", "E", "Z", "Y"}

// roundSig rounds v to n significant digits.
func roundSig(v float64, n int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	mag := math.Floor(math.Log10(math.Abs(v)))
	pow := math.Pow(10, float64(n-1)-mag)
	return math.Round(v*pow) / pow
}

// FormatSI formats v with two significant digits and an SI prefix, so
// 1234 becomes "1.2k" and 0.5 becomes "500m".
func FormatSI(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if v == 0 {
		return "0.0"
	}
	r := roundSig(v, 2)
	exp := int(math.Floor(math.Log10(math.Abs(r))))
	k := exp / 3
	if exp < 0 && exp%3 != 0 {
		k--
	}
	if k < -8 {
		k = -8
	} else if k > 8 {
		k = 8
	}
	scaled := r / math.Pow(10, float64(3*k))
	decimals := 1 - (exp - 3*k)
	if decimals < 0 {
		decimals = 0
	}
	return strconv.FormatFloat(scaled, 'f', decimals, 64) + siPrefixes[k+8]
}

// FormatAbbreviation formats a dollar amount for axis ticks: "$1.2K",
// "$3.4B", "$500".
func FormatAbbreviation(v float64) string {
	s := FormatSI(v)
	switch {
	case strings.HasSuffix(s, "G"):
		return "$" + strings.TrimSuffix(s, "G") + "B"
	case strings.HasSuffix(s, "k"):
		return "$" + strings.TrimSuffix(s, "k") + "K"
	case strings.HasSuffix(s, "m"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(s, "m"), 64)
		if err == nil {
			return "$" + strconv.FormatFloat(n/1000, 'g', 2, 64)
		}
	}
	return "$" + s
}

var printer = message.NewPrinter(language.English)

// Commas groups thousands: 1234567 becomes "1,234,567".
func Commas(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// Currency is Commas with a dollar sign.
func Currency(v float64) string {
	if v < 0 {
		return "-$" + Commas(-v)
	}
	return "$" + Commas(v)
}

// ============================================================================
// DATE FORMATTING
// ============================================================================

// formatTimeTick labels a date tick at a resolution that suits the span of
// the axis.
func formatTimeTick(t time.Time, span time.Duration) string {
	switch {
	case span > 2*365*24*time.Hour:
		return t.Format("2006")
	case span > 60*24*time.Hour:
		return t.Format("Jan 2006")
	default:
		return t.Format("Jan 02")
	}
}
