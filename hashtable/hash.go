package hashtable

import (
	"bytes"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// HashFunc hashes the key behind the pointer.
type HashFunc[K any] func(key *K) uint64

// CompareFunc returns 0 when a and b are equal keys.
type CompareFunc[K any] func(a, b *K) int

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

// FNV1a is the default hash: 32-bit FNV-1a over the key's bytes.
//
// Strings and byte slices hash their contents. Every other type hashes its
// in-memory representation, so keys must be plain data without padding,
// pointers, or embedded strings.
func FNV1a[K any](key *K) uint64 {
	h := uint32(fnvOffset32)
	for _, b := range keyBytes(key) {
		h ^= uint32(b)
		h *= fnvPrime32
	}
	return uint64(h)
}

// XXHash hashes the same bytes as FNV1a with xxHash64.
func XXHash[K any](key *K) uint64 {
	return xxhash.Sum64(keyBytes(key))
}

// BytesCompare is the default comparison: byte-wise over the bytes FNV1a hashes.
func BytesCompare[K any](a, b *K) int {
	return bytes.Compare(keyBytes(a), keyBytes(b))
}

func keyBytes[K any](key *K) []byte {
	switch k := any(key).(type) {
	case *string:
		return unsafe.Slice(unsafe.StringData(*k), len(*k))
	case *[]byte:
		return *k
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(key)), unsafe.Sizeof(*key))
}
