package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRational parses a decimal literal like "3", "-2", or "0.5" into an
// exact Rational. Used at the mini-notation/host boundary, where numeric
// literals arrive as source text rather than already-reduced fractions.
func ParseRational(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("pattern: empty numeric literal")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]
	if whole == "" {
		whole = "0"
	}
	wn, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Zero, fmt.Errorf("pattern: invalid numeric literal %q: %w", s, err)
	}
	r := FromInt(wn)
	if len(parts) == 2 && parts[1] != "" {
		frac := parts[1]
		fn, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return Zero, fmt.Errorf("pattern: invalid numeric literal %q: %w", s, err)
		}
		den := int64(1)
		for i := 0; i < len(frac); i++ {
			den *= 10
		}
		r = r.Add(NewRational(fn, den))
	}
	if neg {
		r = r.Neg()
	}
	return r, nil
}
