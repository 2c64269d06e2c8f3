package calc

import (
	"strings"
	"sync"
)

// HistorySize is the number of entries a Session keeps.
const HistorySize = 10

// Session evaluates expressions and remembers the successful ones.
// It is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	history []string
}

// Eval evaluates expr and, on success, records "expr = result" at the
// front of the history. Failed evaluations are not recorded.
func (s *Session) Eval(expr string) (float64, error) {
	v, err := Eval(expr)
	if err != nil {
		return 0, err
	}

	entry := strings.TrimSpace(expr) + " = " + Format(v)
	s.mu.Lock()
	s.history = append([]string{entry}, s.history...)
	if len(s.history) > HistorySize {
		s.history = s.history[:HistorySize]
	}
	s.mu.Unlock()
	return v, nil
}

// History returns a copy of the recorded entries, newest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// Clear empties the history.
func (s *Session) Clear() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}
