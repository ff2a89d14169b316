package enroll

import (
	"encoding/hex"
	"errors"
	"sync"
)

// ErrBadTemplate is returned when the transport encoding cannot be decoded.
var ErrBadTemplate = errors.New("template is not valid hex")

// Staging holds the one captured fingerprint template awaiting commit. The
// scanner sends the capture and the operator confirms it in two separate
// requests; this slot is the only join between them.
type Staging struct {
	mu  sync.Mutex
	tpl []byte
}

// NewStaging returns an empty staging slot.
func NewStaging() *Staging {
	return &Staging{}
}

// Capture decodes the hex transport form and stages the raw payload,
// replacing any prior uncommitted capture.
func (s *Staging) Capture(templateHex string) error {
	raw, err := hex.DecodeString(templateHex)
	if err != nil {
		return ErrBadTemplate
	}
	s.mu.Lock()
	s.tpl = raw
	s.mu.Unlock()
	return nil
}

// Staged reports whether a capture is waiting for commit.
func (s *Staging) Staged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tpl) > 0
}

// Take returns the staged payload and clears the slot in one critical
// section. Returns nil when nothing was captured.
func (s *Staging) Take() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	tpl := s.tpl
	s.tpl = nil
	return tpl
}
