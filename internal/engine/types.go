package engine

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Hash is a 32-byte keccak-256 digest or any other bytes32 value (salts, secrets, nonces).
type Hash [32]byte

// Address is a 20-byte account identity as used by the settlement contract.
type Address [20]byte

// Hex returns the 0x-prefixed lowercase encoding.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

// IsZero reports whether every byte is zero.
func (h Hash) IsZero() bool { return h == Hash{} }

func (h Hash) MarshalText() ([]byte, error) { return []byte(h.Hex()), nil }

func (h *Hash) UnmarshalText(text []byte) error {
	return decodeFixedHex(string(text), h[:])
}

// HashFromHex parses a 0x-prefixed (or bare) 64-digit hex string.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	err := decodeFixedHex(s, h[:])
	return h, err
}

// MustHash is HashFromHex for compile-time constants; it panics on malformed input.
func MustHash(s string) Hash {
	h, err := HashFromHex(s)
	if err != nil {
		panic(err)
	}
	return h
}

// Hex returns the 0x-prefixed lowercase encoding.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

func (a Address) String() string { return a.Hex() }

func (a Address) MarshalText() ([]byte, error) { return []byte(a.Hex()), nil }

func (a *Address) UnmarshalText(text []byte) error {
	return decodeFixedHex(string(text), a[:])
}

// AddressFromHex parses a 0x-prefixed (or bare) 40-digit hex string. Checksum casing is ignored.
func AddressFromHex(s string) (Address, error) {
	var a Address
	err := decodeFixedHex(s, a[:])
	return a, err
}

// MustAddress is AddressFromHex that panics on malformed input.
func MustAddress(s string) Address {
	a, err := AddressFromHex(s)
	if err != nil {
		panic(err)
	}
	return a
}

func decodeFixedHex(s string, dst []byte) error {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 2*len(dst) {
		return fmt.Errorf("hex value must be %d bytes, got %d hex digits", len(dst), len(s))
	}
	if _, err := hex.Decode(dst, []byte(s)); err != nil {
		return fmt.Errorf("invalid hex value: %w", err)
	}
	return nil
}
