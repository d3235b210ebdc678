package issue

import (
	"errors"
	"testing"
	"time"
)

func TestParseHashRoundTrip(t *testing.T) {
	for _, text := range []string{
		"0000000000000001",
		"deadbeefdeadbeef",
		"0123456789abcdef",
		"ffffffffffffffff",
	} {
		h, err := ParseHash(text)
		if err != nil {
			t.Fatalf("ParseHash(%q): %v", text, err)
		}
		if got := h.String(); got != text {
			t.Errorf("ParseHash(%q).String() = %q", text, got)
		}
	}
}

func TestParseHashRejectsMalformed(t *testing.T) {
	for _, text := range []string{
		"",
		"deadbeef",
		"deadbeefdeadbeef0",
		"DEADBEEFDEADBEEF",
		"deadbeefdeadbeeg",
		" deadbeefdeadbee",
	} {
		_, err := ParseHash(text)
		if err == nil {
			t.Errorf("ParseHash(%q) succeeded, want error", text)
			continue
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("ParseHash(%q) error %T is not *ParseError", text, err)
		}
		if pe.Text != text || pe.Kind != "hash" {
			t.Errorf("ParseError = {%q, %q}, want {hash, %q}", pe.Kind, pe.Text, text)
		}
		if !errors.Is(err, ErrParse) {
			t.Errorf("errors.Is(%v, ErrParse) = false", err)
		}
	}
}

func TestNewHashIsUniqueForIdenticalContent(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	seen := make(map[Hash]bool)
	for i := 0; i < 1000; i++ {
		h := NewHash("alice", "same title", now)
		if h.IsZero() {
			t.Fatal("NewHash returned the zero hash")
		}
		if seen[h] {
			t.Fatalf("NewHash collided after %d hashes", i)
		}
		seen[h] = true
	}
}

func TestHashCompare(t *testing.T) {
	a, _ := ParseHash("0000000000000001")
	b, _ := ParseHash("0000000000000002")
	if a.Compare(b) >= 0 || b.Compare(a) <= 0 || a.Compare(a) != 0 {
		t.Errorf("Compare is not a total order: a<b=%d b<a=%d a=a=%d", a.Compare(b), b.Compare(a), a.Compare(a))
	}
}

func TestHashTextMarshaling(t *testing.T) {
	h, _ := ParseHash("0123456789abcdef")
	text, err := h.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var back Hash
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back != h {
		t.Errorf("UnmarshalText = %s, want %s", back, h)
	}
	if err := back.UnmarshalText([]byte("nope")); err == nil {
		t.Error("UnmarshalText accepted malformed text")
	}
	if back != h {
		t.Error("failed UnmarshalText modified the hash")
	}
}
