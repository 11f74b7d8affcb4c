package treemask

// Stats holds statistical metadata about a comparison
type Stats struct {
	Positions  int `json:"positions"`            // count of mask positions compared
	Predicates int `json:"predicates,omitempty"` // number of predicates called
	Sets       int `json:"sets,omitempty"`       // number of set masks applied to a sequence

	Mismatches    int `json:"mismatches,omitempty"`    // diffs of KindMismatch
	Missing       int `json:"missing,omitempty"`       // diffs of KindMissing
	Unexpected    int `json:"unexpected,omitempty"`    // diffs of KindUnexpected
	Rejected      int `json:"rejected,omitempty"`      // diffs of KindPredicate
	DuplicateKeys int `json:"duplicateKeys,omitempty"` // diffs of KindDuplicateKeys
}

// Diffs returns the total number of diffs counted
func (s Stats) Diffs() int {
	return s.Mismatches + s.Missing + s.Unexpected + s.Rejected + s.DuplicateKeys
}

// PctMatched returns a value from 0 to 1 representing the share of compared
// positions that produced no diff
func (s Stats) PctMatched() float64 {
	if s.Positions == 0 {
		return 1
	}
	matched := s.Positions - s.Diffs()
	if matched < 0 {
		matched = 0
	}
	return float64(matched) / float64(s.Positions)
}

func (s *Stats) count(d Diff) {
	switch d.Kind() {
	case KindMismatch:
		s.Mismatches++
	case KindMissing:
		s.Missing++
	case KindUnexpected:
		s.Unexpected++
	case KindPredicate:
		s.Rejected++
	case KindDuplicateKeys:
		s.DuplicateKeys++
	}
}
