// Package sizefmt renders byte counts for progress output.
package sizefmt

import (
	"strconv"
	"strings"
)

type unit struct {
	name      string
	threshold int64
}

// Units in ascending order. There is nothing above TiB.
var units = []unit{
	{"KiB", 1 << 10},
	{"MiB", 1 << 20},
	{"GiB", 1 << 30},
	{"TiB", 1 << 40},
}

// Format returns b as a binary-unit string followed by the exact count in
// parentheses, e.g. "1.5 KiB (1536)". Counts below 1024 are returned bare.
func Format(b int64) string {
	if b < units[0].threshold {
		return strconv.FormatInt(b, 10)
	}

	u := units[0]
	for _, candidate := range units[1:] {
		if b < candidate.threshold {
			break
		}
		u = candidate
	}

	s := strconv.FormatFloat(float64(b)/float64(u.threshold), 'f', 2, 64)
	switch {
	case strings.HasSuffix(s, ".00"):
		s = s[:len(s)-3]
	case strings.HasSuffix(s, "0"):
		s = s[:len(s)-1]
	}

	return s + " " + u.name + " (" + strconv.FormatInt(b, 10) + ")"
}
