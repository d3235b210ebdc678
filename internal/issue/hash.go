package issue

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"time"

	"github.com/google/uuid"
)

// HashLen is the length of the canonical text form of a Hash.
const HashLen = 16

// Hash is the stable identifier of an issue. It is assigned once when the
// issue is opened and never recomputed. Hash is comparable and can be used
// as a map key.
type Hash [8]byte

// NewHash derives a fresh hash from the creation content of an issue plus a
// random salt, so two issues opened with identical content still differ.
func NewHash(author, title string, created time.Time) Hash {
	h := sha256.New()
	w := hashFieldWriter{h}
	w.str(author)
	w.str(title)
	w.str(created.UTC().Format(time.RFC3339Nano))
	w.str(uuid.New().String())

	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// hashFieldWriter writes each field followed by a NUL separator so that
// adjacent fields cannot run into each other.
type hashFieldWriter struct {
	h hash.Hash
}

func (w hashFieldWriter) str(s string) {
	w.h.Write([]byte(s))
	w.h.Write([]byte{0})
}

// ParseHash parses the canonical text form: exactly 16 lowercase hex digits.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != HashLen {
		return h, &ParseError{Kind: "hash", Text: s}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return h, &ParseError{Kind: "hash", Text: s}
		}
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return Hash{}, &ParseError{Kind: "hash", Text: s, Err: err}
	}
	return h, nil
}

// String returns the canonical text form.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Compare orders hashes by their bytes and returns -1, 0 or +1.
func (h Hash) Compare(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// IsZero reports whether h is the zero value, which is never assigned to an issue.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
