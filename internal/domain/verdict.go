package domain

// Verdict is the judge's classification of a submission. Values are
// platform-defined strings; only membership in the platform's pending set
// matters to the engine.
type Verdict string

const (
	// VerdictUnknown is recorded when polling gives up after repeated
	// fetch failures. It is terminal.
	VerdictUnknown Verdict = "unknown"
)

// PendingSet is the set of verdict values a platform uses while a submission
// is still being judged. Anything outside the set is terminal. The first
// value passed to NewPendingSet is the sentinel fresh submissions start at.
type PendingSet struct {
	sentinel Verdict
	values   map[Verdict]struct{}
}

func NewPendingSet(sentinel Verdict, rest ...Verdict) PendingSet {
	values := make(map[Verdict]struct{}, len(rest)+1)
	values[sentinel] = struct{}{}
	for _, v := range rest {
		values[v] = struct{}{}
	}
	return PendingSet{sentinel: sentinel, values: values}
}

func (s PendingSet) Contains(v Verdict) bool {
	_, ok := s.values[v]
	return ok
}

// Sentinel is the pending value fresh submissions are initialized with.
func (s PendingSet) Sentinel() Verdict {
	if s.sentinel == "" {
		return VerdictUnknown
	}
	return s.sentinel
}
