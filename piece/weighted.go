package piece

// Weighted is one candidate value with its relative weight
type Weighted struct {
	Value  string `toml:"value" yaml:"value" json:"value"`
	Weight int    `toml:"weight" yaml:"weight" json:"weight"`
}

// WeightedList is an ordered set of weighted candidates
// The first candidate is the representative one for previews
type WeightedList []Weighted

// First returns the first candidate value, false when the list is empty or the value is null
func (l WeightedList) First() (string, bool) {
	if len(l) == 0 || l[0].Value == "" {
		return "", false
	}
	return l[0].Value, true
}

// IsUniform reports whether every candidate has the same weight
// An empty list is not uniform
func (l WeightedList) IsUniform() bool {
	if len(l) == 0 {
		return false
	}
	w := l[0].Weight
	for _, e := range l[1:] {
		if e.Weight != w {
			return false
		}
	}
	return true
}

// TotalWeight sums all candidate weights
func (l WeightedList) TotalWeight() int {
	total := 0
	for _, e := range l {
		total += e.Weight
	}
	return total
}

// Clone returns an independent copy
func (l WeightedList) Clone() WeightedList {
	if l == nil {
		return nil
	}
	out := make(WeightedList, len(l))
	copy(out, l)
	return out
}
