package transcript

import (
	"github.com/MJE43/triad-replay-go/internal/engine"
)

// MatchDomain separates match identifiers from other hashes.
const MatchDomain = "TRIAD_TRANSCRIPT_V1"

// Encode returns the canonical word encoding of t as declared: header fields in
// order, then the three packed turn arrays as bytes9 values.
func Encode(t Transcript) []byte {
	h := t.Header
	w := engine.NewWords(25).
		Domain(MatchDomain).
		Uint(uint64(h.Version)).
		Hash(h.RulesetID).
		Uint(uint64(h.SeasonID)).
		Address(h.PlayerA).
		Address(h.PlayerB)
	for _, id := range h.DeckA {
		w.Uint(uint64(id))
	}
	for _, id := range h.DeckB {
		w.Uint(uint64(id))
	}
	w.Uint(uint64(h.FirstPlayer)).
		Uint(h.Deadline).
		Hash(h.Salt)

	moves, marks, earth := pack(t.Turns)
	w.FixedBytes(moves[:]).FixedBytes(marks[:]).FixedBytes(earth[:])
	return w.Bytes()
}

// MatchID is keccak-256 of Encode(t).
func MatchID(t Transcript) engine.Hash {
	return engine.Keccak256(Encode(t))
}
