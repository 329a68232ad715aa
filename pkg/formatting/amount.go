package formatting

import (
	"strconv"
	"strings"
)

// Placeholder renders a missing value.
const Placeholder = "-"

// Amount renders a nullable dollar amount with thousands separators and two
// decimals, e.g. "$52,000.00" or "-$1,200.50". Nil renders as Placeholder.
func Amount(v *float64) string {
	if v == nil {
		return Placeholder
	}

	s := strconv.FormatFloat(*v, 'f', 2, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + "$" + b.String() + "." + frac
}

// Text renders a nullable string, using Placeholder for nil or blank values.
func Text(v *string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return Placeholder
	}
	return *v
}
