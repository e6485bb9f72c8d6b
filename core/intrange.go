package core

import (
	"fmt"
	"strconv"
	"strings"
)

// IntRange is an inclusive [Min, Max] pair used for amounts, chances and repeats
// Its text form is "n" for a single value and "min-max" otherwise
type IntRange struct {
	Min int
	Max int
}

// Single returns a range holding exactly one value
func Single(v int) IntRange {
	return IntRange{Min: v, Max: v}
}

// IsSingle reports whether the range holds one value
func (r IntRange) IsSingle() bool {
	return r.Min == r.Max
}

// Normalized returns the range with Min <= Max
func (r IntRange) Normalized() IntRange {
	if r.Min > r.Max {
		return IntRange{Min: r.Max, Max: r.Min}
	}
	return r
}

func (r IntRange) String() string {
	if r.IsSingle() {
		return strconv.Itoa(r.Min)
	}
	return strconv.Itoa(r.Min) + "-" + strconv.Itoa(r.Max)
}

func (r IntRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText accepts "n" or "min-max"; a leading '-' is a negative sign, not a separator
func (r *IntRange) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	sep := strings.Index(strings.TrimPrefix(s, "-"), "-")
	if sep < 0 {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid range %q", s)
		}
		*r = Single(v)
		return nil
	}
	if strings.HasPrefix(s, "-") {
		sep++
	}
	lo, err1 := strconv.Atoi(strings.TrimSpace(s[:sep]))
	hi, err2 := strconv.Atoi(strings.TrimSpace(s[sep+1:]))
	if err1 != nil || err2 != nil {
		return fmt.Errorf("invalid range %q", s)
	}
	*r = IntRange{Min: lo, Max: hi}
	return nil
}
