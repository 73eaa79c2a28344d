package parser

import (
	"fmt"
	"strconv"
)

// parseNumericLiteral interprets a NUMERIC_CONSTANT token's literal text:
// a '$' prefix means base 16, a '.' prefix means base 10 (spec §4.3).
func parseNumericLiteral(lit string) (uint32, error) {
	if len(lit) < 2 {
		return 0, fmt.Errorf("malformed numeric literal %q", lit)
	}
	prefix, digits := lit[0], lit[1:]
	var base int
	switch prefix {
	case '$':
		base = 16
	case '.':
		base = 10
	default:
		return 0, fmt.Errorf("malformed numeric literal %q", lit)
	}
	val, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric literal %q: %w", lit, err)
	}
	return uint32(val), nil
}
