package engine

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// WordSize is the width of one encoded value.
const WordSize = 32

// Keccak256 hashes the concatenation of data with legacy (pre-NIST) Keccak padding,
// matching the settlement contract's keccak256.
func Keccak256(data ...[]byte) Hash {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out Hash
	h.Sum(out[:0])
	return out
}

// Domain returns the keccak-256 of a domain separation string.
func Domain(tag string) Hash {
	return Keccak256([]byte(tag))
}

// Words builds an encoding made of 32-byte big-endian words, the same layout
// abi.encode produces for static types. The zero value is ready to use.
type Words struct {
	buf []byte
}

// NewWords preallocates room for n words.
func NewWords(n int) *Words {
	return &Words{buf: make([]byte, 0, n*WordSize)}
}

func (w *Words) word() []byte {
	w.buf = append(w.buf, make([]byte, WordSize)...)
	return w.buf[len(w.buf)-WordSize:]
}

// Uint appends an unsigned integer right-aligned in its word.
func (w *Words) Uint(v uint64) *Words {
	binary.BigEndian.PutUint64(w.word()[WordSize-8:], v)
	return w
}

// Bool appends 1 or 0.
func (w *Words) Bool(v bool) *Words {
	if v {
		return w.Uint(1)
	}
	return w.Uint(0)
}

// Address appends a 20-byte address right-aligned (uint160).
func (w *Words) Address(a Address) *Words {
	copy(w.word()[WordSize-len(a):], a[:])
	return w
}

// Hash appends a bytes32 value.
func (w *Words) Hash(h Hash) *Words {
	copy(w.word(), h[:])
	return w
}

// FixedBytes appends a bytesN value (N <= 32) left-aligned and zero padded.
func (w *Words) FixedBytes(b []byte) *Words {
	if len(b) > WordSize {
		panic("engine: fixed bytes wider than one word")
	}
	copy(w.word(), b)
	return w
}

// Domain appends the keccak-256 of tag.
func (w *Words) Domain(tag string) *Words {
	return w.Hash(Domain(tag))
}

// Bytes returns the encoding built so far.
func (w *Words) Bytes() []byte { return w.buf }

// Len returns the number of words written.
func (w *Words) Len() int { return len(w.buf) / WordSize }

// Sum returns keccak-256 of the encoding.
func (w *Words) Sum() Hash { return Keccak256(w.buf) }
