package enroll

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func TestCaptureRoundTrip(t *testing.T) {
	payload := []byte{0xaa, 0x11, 0x00, 0xfe}
	s := NewStaging()

	if err := s.Capture(hex.EncodeToString(payload)); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if !s.Staged() {
		t.Fatal("Staged() = false after capture")
	}
	if got := s.Take(); !bytes.Equal(got, payload) {
		t.Fatalf("Take() = %x, want %x", got, payload)
	}
	if s.Staged() {
		t.Fatal("Staged() = true after take")
	}
}

func TestCaptureRejectsBadHex(t *testing.T) {
	s := NewStaging()
	if err := s.Capture("zz-not-hex"); !errors.Is(err, ErrBadTemplate) {
		t.Fatalf("err = %v, want ErrBadTemplate", err)
	}
	if s.Staged() {
		t.Fatal("failed capture staged a payload")
	}
}

func TestSecondCaptureReplacesFirst(t *testing.T) {
	s := NewStaging()
	if err := s.Capture("aa11"); err != nil {
		t.Fatal(err)
	}
	if err := s.Capture("bb22"); err != nil {
		t.Fatal(err)
	}
	if got := s.Take(); !bytes.Equal(got, []byte{0xbb, 0x22}) {
		t.Fatalf("Take() = %x, want the second capture", got)
	}
}
