package device

import (
	"errors"
	"sync"
)

// Command kinds understood by the scanner firmware.
const (
	KindEnroll    = "enroll"
	KindRecognize = "recognize"
)

var (
	// ErrIDMissing is returned when an enroll command omits the target id.
	ErrIDMissing = errors.New("ID missing")
	// ErrInvalidCommand is returned for unknown command kinds.
	ErrInvalidCommand = errors.New("Invalid command")
)

// Mailbox hands the scanner at most one pending command per poll. The scanner
// has no addressable API; it polls, and whichever poll arrives first drains
// the slot. A command set before the previous one was polled replaces it.
type Mailbox struct {
	mu      sync.Mutex
	pending string
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// Set validates and stores a command, returning its encoded wire form.
// Enroll requires a non-empty target id. Last write wins.
func (m *Mailbox) Set(kind, targetID string) (string, error) {
	var cmd string
	switch kind {
	case KindEnroll:
		if targetID == "" {
			return "", ErrIDMissing
		}
		cmd = KindEnroll + " " + targetID
	case KindRecognize:
		cmd = KindRecognize
	default:
		return "", ErrInvalidCommand
	}

	m.mu.Lock()
	m.pending = cmd
	m.mu.Unlock()
	return cmd, nil
}

// Take returns the pending command and clears the slot in one critical
// section, so two concurrent polls cannot both observe it. The second value
// is false when nothing is pending.
func (m *Mailbox) Take() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == "" {
		return "", false
	}
	cmd := m.pending
	m.pending = ""
	return cmd, true
}
