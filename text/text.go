package text

import (
	"bytes"
	"fmt"

	"github.com/spaolacci/murmur3"

	"github.com/hupe1980/vessel/internal/check"
	"github.com/hupe1980/vessel/ops"
	"github.com/hupe1980/vessel/vector"
)

// hashSeed is the murmur3 seed used by Hash.
const hashSeed = 0x9747b28c

var (
	// Ops stores String values in containers: copies are deep, deletes
	// release the byte buffer.
	Ops = ops.Of[String]()

	// PtrOps stores *String values in containers.
	PtrOps = ops.Pointer(Ops)

	// ErrEmpty is returned by PopByte on an empty string.
	ErrEmpty = fmt.Errorf("text: %w", vector.ErrEmpty)
)

// String is a mutable, length-prefixed byte string.
//
// The zero value is an empty string ready to use. A String owns its buffer:
// store it in containers through Ops or PtrOps, and copy it with CloneInto.
type String struct {
	buf vector.Vector[byte]
}

// New returns an empty string with room for capacity bytes.
func New(capacity int) *String {
	s := &String{}
	if capacity > 0 {
		s.buf.Reserve(capacity)
	}
	return s
}

// From returns a String holding a copy of v.
func From(v string) String {
	var s String
	s.Append(v)
	return s
}

// Len returns the length in bytes.
func (s *String) Len() int { return s.buf.Len() }

// Cap returns the buffer capacity in bytes.
func (s *String) Cap() int { return s.buf.Cap() }

// Bytes returns the content as a borrowed slice.
func (s *String) Bytes() []byte { return s.buf.View() }

// String returns a copy of the content.
func (s *String) String() string { return string(s.buf.View()) }

// Append appends v.
func (s *String) Append(v string) {
	s.reserveMore(len(v))
	s.buf.InsertMany(s.buf.Len(), []byte(v)...)
}

// AppendBytes appends b.
func (s *String) AppendBytes(b []byte) {
	s.reserveMore(len(b))
	s.buf.InsertMany(s.buf.Len(), b...)
}

// AppendByte appends a single byte.
func (s *String) AppendByte(b byte) { s.buf.Push(b) }

// AppendString appends the content of o. o may be s itself.
func (s *String) AppendString(o *String) {
	check.NotNil(o, "string")
	s.AppendBytes(bytes.Clone(o.Bytes()))
}

// Insert inserts v at byte offset i.
func (s *String) Insert(i int, v string) {
	s.reserveMore(len(v))
	s.buf.InsertMany(i, []byte(v)...)
}

// InsertByte inserts b at byte offset i.
func (s *String) InsertByte(i int, b byte) { s.buf.Insert(i, b) }

// InsertString inserts the content of o at byte offset i.
func (s *String) InsertString(i int, o *String) {
	check.NotNil(o, "string")
	s.Insert(i, o.String())
}

// PopByte removes and returns the last byte.
func (s *String) PopByte() (byte, error) {
	b, err := s.buf.Pop()
	if err != nil {
		return 0, ErrEmpty
	}
	return b, nil
}

// RemoveAt removes and returns the byte at i.
func (s *String) RemoveAt(i int) byte { return s.buf.Remove(i) }

// RemoveRange removes the bytes in [l, r]. r is clamped to Len()-1.
func (s *String) RemoveRange(l, r int) { s.buf.RemoveRange(l, r) }

// At returns the byte at i.
func (s *String) At(i int) byte { return *s.buf.At(i) }

// SetAt replaces the byte at i.
func (s *String) SetAt(i int, b byte) { *s.buf.At(i) = b }

// Compare compares s and o lexicographically.
func (s *String) Compare(o *String) int {
	return bytes.Compare(s.Bytes(), o.Bytes())
}

// Equal reports whether s and o hold the same bytes.
func (s *String) Equal(o *String) bool {
	return bytes.Equal(s.Bytes(), o.Bytes())
}

// EqualString reports whether s holds exactly v.
func (s *String) EqualString(v string) bool {
	return string(s.Bytes()) == v
}

// IndexByte returns the offset of the first b, or -1.
func (s *String) IndexByte(b byte) int {
	return bytes.IndexByte(s.Bytes(), b)
}

// Index returns the offset of the first occurrence of sub, or -1.
func (s *String) Index(sub string) int {
	return bytes.Index(s.Bytes(), []byte(sub))
}

// Substr returns a copy of up to length bytes starting at start.
func (s *String) Substr(start, length int) String {
	check.That(start >= 0 && start <= s.Len(), "substring start %d out of bounds [0, %d]", start, s.Len())
	check.That(length >= 0, "negative substring length %d", length)

	end := min(start+length, s.Len())
	var out String
	out.AppendBytes(s.Bytes()[start:end])
	return out
}

// Clear empties the string and keeps its buffer.
func (s *String) Clear() { s.buf.Clear() }

// Release frees the buffer. The string stays usable and empty.
func (s *String) Release() { s.buf.Reset() }

// CloneInto deep-copies s into the uninitialised dst.
func (s *String) CloneInto(dst *String) {
	*dst = String{}
	dst.buf.CopyFrom(&s.buf)
}

// Clone returns a deep copy of s.
func (s *String) Clone() String {
	var out String
	s.CloneInto(&out)
	return out
}

// Hash is the murmur3 32-bit hash of the content, for use as a hashtable
// key function.
func Hash(s *String) uint64 {
	return uint64(murmur3.Sum32WithSeed(s.Bytes(), hashSeed))
}

// Compare is Compare as a hashtable key comparison.
func Compare(a, b *String) int { return a.Compare(b) }

// PtrHash hashes the String behind a pointer key.
func PtrHash(s **String) uint64 { return Hash(*s) }

// PtrCompare compares the Strings behind two pointer keys.
func PtrCompare(a, b **String) int { return Compare(*a, *b) }

// reserveMore makes room for n more bytes, growing geometrically so repeated
// appends stay amortised.
func (s *String) reserveMore(n int) {
	need := s.buf.Len() + n
	if need <= s.buf.Cap() {
		return
	}
	s.buf.Reserve(max(need, s.buf.Cap()+s.buf.Cap()/2))
}
