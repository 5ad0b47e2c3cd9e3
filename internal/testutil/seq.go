package testutil

// Sequence is a logical clock for ordering trace events: the first call to
// Next returns 1. It is not safe for concurrent use; scenarios run on one
// goroutine.
type Sequence struct {
	n int64
}

// NewSequence returns a sequence positioned at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next advances and returns the new position.
func (s *Sequence) Next() int64 {
	s.n++
	return s.n
}

// Current returns the position without advancing.
func (s *Sequence) Current() int64 {
	return s.n
}

// Reset rewinds to 0 so a scenario can be replayed with identical numbering.
func (s *Sequence) Reset() {
	s.n = 0
}
