package youtube

import (
	"fmt"
	"strconv"
	"strings"
)

// parseISODuration converts an ISO 8601 duration such as PT1H2M3S or P1DT30M into seconds
func parseISODuration(s string) (int64, error) {
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	var total int64
	inTime := false
	num := ""
	for _, r := range s[1:] {
		switch {
		case r == 'T':
			inTime = true
		case r >= '0' && r <= '9' || r == '.':
			num += string(r)
		default:
			if num == "" {
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			f, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid duration %q: %w", s, err)
			}
			var unit float64
			switch {
			case r == 'W' && !inTime:
				unit = 7 * 86400
			case r == 'D' && !inTime:
				unit = 86400
			case r == 'H' && inTime:
				unit = 3600
			case r == 'M' && inTime:
				unit = 60
			case r == 'S' && inTime:
				unit = 1
			default:
				return 0, fmt.Errorf("unsupported duration component %q in %q", r, s)
			}
			total += int64(f * unit)
			num = ""
		}
	}
	if num != "" {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return total, nil
}
