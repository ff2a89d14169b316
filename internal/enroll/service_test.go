package enroll

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"asistencia/internal/roster"
)

type fakeStore struct {
	inserted []roster.Student
	err      error
}

func (f *fakeStore) Insert(_ context.Context, s roster.Student) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, s)
	return nil
}

func TestCommitUsesStagedTemplate(t *testing.T) {
	staging := NewStaging()
	st := &fakeStore{}
	svc := NewService(staging, st)

	if err := svc.Capture(7, "aa11"); err != nil {
		t.Fatal(err)
	}
	if !svc.Staged() {
		t.Fatal("Staged() = false after capture")
	}

	if err := svc.Commit(context.Background(), 7, "Ana", "Ruiz", roster.RoleStudent); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(st.inserted) != 1 {
		t.Fatalf("inserted %d students, want 1", len(st.inserted))
	}
	got := st.inserted[0]
	if got.ID != 7 || got.Name != "Ana" || got.Surname != "Ruiz" || got.Role != roster.RoleStudent {
		t.Fatalf("inserted = %+v", got)
	}
	if !bytes.Equal(got.Template, []byte{0xaa, 0x11}) {
		t.Fatalf("template = %x, want aa11", got.Template)
	}
	if svc.Staged() {
		t.Fatal("staging not cleared after commit")
	}
}

func TestCommitClearsStagingOnFailure(t *testing.T) {
	staging := NewStaging()
	st := &fakeStore{err: roster.ErrDuplicateID}
	svc := NewService(staging, st)

	if err := svc.Capture(7, "aa11"); err != nil {
		t.Fatal(err)
	}
	err := svc.Commit(context.Background(), 7, "Ana", "Ruiz", roster.RoleStudent)
	if !errors.Is(err, roster.ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
	if svc.Staged() {
		t.Fatal("failed commit left the template staged")
	}
}

func TestCommitRejectsUnknownRole(t *testing.T) {
	staging := NewStaging()
	st := &fakeStore{}
	svc := NewService(staging, st)

	if err := svc.Capture(7, "aa11"); err != nil {
		t.Fatal(err)
	}
	err := svc.Commit(context.Background(), 7, "Ana", "Ruiz", "DIRECTOR")
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("err = %v, want ErrInvalidRole", err)
	}
	if len(st.inserted) != 0 {
		t.Fatal("invalid role reached the store")
	}
	if svc.Staged() {
		t.Fatal("rejected commit left the template staged")
	}
}

func TestCommitWithoutCaptureStoresNilTemplate(t *testing.T) {
	svc := NewService(NewStaging(), &fakeStore{})
	st := svc.store.(*fakeStore)

	if err := svc.Commit(context.Background(), 9, "Luis", "Mora", roster.RoleInstructor); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if st.inserted[0].Template != nil {
		t.Fatalf("template = %x, want nil", st.inserted[0].Template)
	}
}
