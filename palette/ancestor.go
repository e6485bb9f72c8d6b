package palette

import "github.com/lixenwraith/vi-palette/core"

// AncestorSwitch is one dependency point offering alternative parent palettes
// Options are palette identifiers that may not exist in the registry yet
type AncestorSwitch struct {
	Options []string
}

// Selected returns the candidate chosen for this switch by the session selection
// Out-of-range choices degrade to the last candidate; a switch without options yields false
func (s AncestorSwitch) Selected(sel Selection, owner core.UUID, switchIdx int) (string, bool) {
	idx := sel.Selected(owner, switchIdx, len(s.Options))
	if idx < 0 {
		return "", false
	}
	return s.Options[idx], true
}

// AncestorList is the ordered set of switches a palette inherits through
// It is declarative only; resolution belongs to View
type AncestorList struct {
	Switches []AncestorSwitch
}

// Add appends a switch with the given candidates
func (l *AncestorList) Add(options ...string) {
	l.Switches = append(l.Switches, AncestorSwitch{Options: options})
}

// Len returns the number of switches
func (l AncestorList) Len() int {
	return len(l.Switches)
}

// Empty reports whether the palette inherits from nothing
func (l AncestorList) Empty() bool {
	return len(l.Switches) == 0
}

// Clear drops every switch
func (l *AncestorList) Clear() {
	l.Switches = nil
}

// Clone returns an independent copy
func (l AncestorList) Clone() AncestorList {
	if l.Switches == nil {
		return AncestorList{}
	}
	out := AncestorList{Switches: make([]AncestorSwitch, len(l.Switches))}
	for i, sw := range l.Switches {
		out.Switches[i] = AncestorSwitch{Options: append([]string(nil), sw.Options...)}
	}
	return out
}

// Selection is the per-session table of chosen switch options, keyed by palette identity
// Resolution only reads it; a nil Selection picks the first candidate everywhere
type Selection map[core.UUID][]int

// Selected returns the clamped option index for one switch, -1 when the switch has no options
func (s Selection) Selected(owner core.UUID, switchIdx, numOptions int) int {
	if numOptions <= 0 {
		return -1
	}
	idx := 0
	if opts, ok := s[owner]; ok && switchIdx >= 0 && switchIdx < len(opts) {
		idx = opts[switchIdx]
	}
	if idx >= numOptions {
		idx = numOptions - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// Set records the chosen option for one switch
func (s Selection) Set(owner core.UUID, switchIdx, option int) {
	if switchIdx < 0 {
		return
	}
	opts := s[owner]
	if len(opts) <= switchIdx {
		grown := make([]int, switchIdx+1)
		copy(grown, opts)
		opts = grown
	}
	opts[switchIdx] = option
	s[owner] = opts
}

// Cycle advances one switch to its next option, wrapping around
func (s Selection) Cycle(owner core.UUID, switchIdx, numOptions int) {
	if numOptions <= 0 {
		return
	}
	cur := s.Selected(owner, switchIdx, numOptions)
	s.Set(owner, switchIdx, (cur+1)%numOptions)
}

// Clone returns an independent copy
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		out[k] = append([]int(nil), v...)
	}
	return out
}
