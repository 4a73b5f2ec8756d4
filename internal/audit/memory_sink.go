// internal/audit/memory_sink.go
package audit

import "sync"

// MemorySink collects records for tests.
type MemorySink struct {
	mu   sync.Mutex
	recs []Record
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
}

// Records returns a copy of everything written so far.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.recs))
	copy(out, s.recs)
	return out
}
