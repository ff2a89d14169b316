package enroll

import (
	"context"
	"errors"
	"fmt"

	"asistencia/internal/roster"
)

// ErrInvalidRole is returned when rol is not a recognized value.
var ErrInvalidRole = errors.New("invalid role")

// StudentStore is the slice of the roster repository commit needs.
type StudentStore interface {
	Insert(ctx context.Context, s roster.Student) error
}

// Service bridges the scanner's template capture and the operator's identity
// commit into one persisted student record.
type Service struct {
	staging *Staging
	store   StudentStore
}

// NewService creates a service around a staging slot and a student store.
func NewService(staging *Staging, store StudentStore) *Service {
	return &Service{staging: staging, store: store}
}

// Capture stages a hex-encoded template. The id the scanner sends alongside
// the capture is accepted but not recorded: the commit call supplies the id
// again, and the two are not cross-checked. A capture for one id followed by
// a commit for another silently attaches the first template.
func (s *Service) Capture(idHint int, templateHex string) error {
	return s.staging.Capture(templateHex)
}

// Staged reports whether a capture is waiting for commit.
func (s *Service) Staged() bool {
	return s.staging.Staged()
}

// Commit inserts a student using whatever is currently staged. The slot is
// cleared before the insert is attempted, so a failed commit never leaks its
// template into a later unrelated one. A commit with nothing staged stores a
// NULL template.
func (s *Service) Commit(ctx context.Context, id int, nombre, apellido, rol string) error {
	tpl := s.staging.Take()
	if !roster.ValidRole(rol) {
		return fmt.Errorf("%w: %q", ErrInvalidRole, rol)
	}
	return s.store.Insert(ctx, roster.Student{
		ID:       id,
		Name:     nombre,
		Surname:  apellido,
		Template: tpl,
		Role:     rol,
	})
}
