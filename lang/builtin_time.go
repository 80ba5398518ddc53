package lang

import (
	"strconv"
	"strings"
	"time"
)

func registerTimeBuiltins(table map[string]Value) {
	registerNullary(table, "now", func() (Value, error) {
		return String{Value: time.Now().Format(time.RFC3339)}, nil
	})

	registerNullary(table, "timestamp", func() (Value, error) {
		return IntOf(time.Now().Unix()), nil
	})

	registerNullary(table, "timezone", func() (Value, error) {
		return String{Value: time.Now().Format("-07:00")}, nil
	})

	register(table, "date_format", 2, func(args []Value) (Value, error) {
		dateStr, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		format, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		t, err := parseRFC3339(dateStr)
		if err != nil {
			return nil, err
		}

		return String{Value: t.Format(strftimeLayout(format))}, nil
	})

	register(table, "date_parse", 2, func(args []Value) (Value, error) {
		dateStr, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		format, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		t, perr := time.ParseInLocation(strftimeLayout(format), dateStr, time.Local)
		if perr != nil {
			return nil, valueErrorf(0, "cannot parse %q with format %q", dateStr, format)
		}

		return String{Value: t.Format(time.RFC3339)}, nil
	})

	register(table, "date_add", 2, func(args []Value) (Value, error) {
		dateStr, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		durStr, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		t, err := parseRFC3339(dateStr)
		if err != nil {
			return nil, err
		}

		d, err := parseDuration(durStr)
		if err != nil {
			return nil, err
		}

		return String{Value: t.Add(d).Format(time.RFC3339)}, nil
	})

	// date_diff returns the difference in whole seconds, first minus
	// second.
	register(table, "date_diff", 2, func(args []Value) (Value, error) {
		aStr, err := argString(args[0])
		if err != nil {
			return nil, err
		}

		bStr, err := argString(args[1])
		if err != nil {
			return nil, err
		}

		a, err := parseRFC3339(aStr)
		if err != nil {
			return nil, err
		}

		b, err := parseRFC3339(bStr)
		if err != nil {
			return nil, err
		}

		return IntOf(int64(a.Sub(b).Seconds())), nil
	})
}

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(time.RFC1123Z, s)
	if err == nil {
		return t, nil
	}

	return time.Time{}, valueErrorf(0, "invalid date string %q, expected RFC 3339 (e.g. 2024-03-15T14:30:00+00:00)", s)
}

// parseDuration accepts a number with a unit suffix: s, m, h, d, w, or y.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, valueErrorf(0, "empty duration")
	}

	unit := s[len(s)-1]

	n, err := strconv.ParseInt(s[:len(s)-1], 10, 64)
	if err != nil {
		return 0, valueErrorf(0, "invalid duration %q, expected number with unit s/m/h/d/w/y", s)
	}

	switch unit {
	case 's':
		return time.Duration(n) * time.Second, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	case 'y':
		return time.Duration(n) * 365 * 24 * time.Hour, nil
	default:
		return 0, valueErrorf(0, "unknown duration unit %q in %q", string(unit), s)
	}
}

// strftimeLayout converts the common strftime directives into a Go time
// layout. Unrecognized directives pass through unchanged.
func strftimeLayout(format string) string {
	replacer := strings.NewReplacer(
		"%Y", "2006",
		"%y", "06",
		"%m", "01",
		"%d", "02",
		"%H", "15",
		"%I", "03",
		"%M", "04",
		"%S", "05",
		"%p", "PM",
		"%a", "Mon",
		"%A", "Monday",
		"%b", "Jan",
		"%B", "January",
		"%z", "-0700",
		"%Z", "MST",
		"%%", "%",
	)

	return replacer.Replace(format)
}
