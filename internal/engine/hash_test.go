package engine

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeccak256KnownVectors(t *testing.T) {
	// Legacy Keccak, not NIST SHA3-256.
	assert.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		Keccak256().Hex())
	assert.Equal(t, Keccak256([]byte("ab")), Keccak256([]byte("a"), []byte("b")))
	assert.Equal(t, Keccak256([]byte("TRIAD_RULESET_V1")), Domain("TRIAD_RULESET_V1"))
}

func TestWordsLayout(t *testing.T) {
	addr := MustAddress("0x00112233445566778899aabbccddeeff00112233")
	h := MustHash("0x" + "ab" + string(bytes.Repeat([]byte("00"), 31)))

	w := NewWords(5).
		Uint(0x0102).
		Bool(true).
		Address(addr).
		Hash(h).
		FixedBytes([]byte{0xde, 0xad})

	require.Equal(t, 5, w.Len())
	b := w.Bytes()

	word := func(i int) []byte { return b[i*WordSize : (i+1)*WordSize] }

	assert.Equal(t, []byte{0x01, 0x02}, word(0)[30:])
	assert.Equal(t, make([]byte, 30), word(0)[:30])
	assert.Equal(t, byte(1), word(1)[31])
	assert.Equal(t, make([]byte, 12), word(2)[:12], "address is right-aligned")
	assert.Equal(t, addr[:], word(2)[12:])
	assert.Equal(t, h[:], word(3))
	assert.Equal(t, []byte{0xde, 0xad}, word(4)[:2], "fixed bytes are left-aligned")
	assert.Equal(t, make([]byte, 30), word(4)[2:])

	assert.Equal(t, Keccak256(b), w.Sum())
}

func TestWordsFixedBytesTooWide(t *testing.T) {
	assert.Panics(t, func() { new(Words).FixedBytes(make([]byte, 33)) })
}

func TestHexParsing(t *testing.T) {
	h, err := HashFromHex("1111111111111111111111111111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, byte(0x11), h[31])
	assert.False(t, h.IsZero())
	assert.True(t, Hash{}.IsZero())

	_, err = HashFromHex("0x1234")
	assert.Error(t, err)
	_, err = AddressFromHex("0xzzaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	assert.Error(t, err)

	a := MustAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, `"0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"`, string(data))

	var back Address
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, a, back)
}
