package engine

import (
	"fmt"
	"math/big"
)

// Seed0Domain separates the per-match seed from every other hash in the protocol.
const Seed0Domain = "TRIAD_CLASSIC_SEED_V1"

// Seed is the per-match root of all deterministic randomness. It carries no state:
// every draw is a pure function of the seed, a purpose tag and integer parts, so
// draws are independent of call order.
type Seed struct {
	root Hash
}

// DeriveSeed0 computes seed0 from the match's domain-separation key.
func DeriveSeed0(salt Hash, playerA, playerB Address, rulesetID Hash) Seed {
	w := NewWords(5).
		Domain(Seed0Domain).
		Hash(salt).
		Address(playerA).
		Address(playerB).
		Hash(rulesetID)
	return Seed{root: w.Sum()}
}

// SeedFromHash wraps an already derived seed0.
func SeedFromHash(h Hash) Seed { return Seed{root: h} }

// Hash returns the raw seed0 value.
func (s Seed) Hash() Hash { return s.root }

// Digest returns keccak(seed0, keccak(tag), parts...) for one use of randomness.
func (s Seed) Digest(tag string, parts ...uint64) Hash {
	w := NewWords(2 + len(parts)).Hash(s.root).Domain(tag)
	for _, p := range parts {
		w.Uint(p)
	}
	return w.Sum()
}

// Draw reduces the digest for (tag, parts) modulo bound, interpreting the digest as a
// big-endian uint256. bound must be positive.
func (s Seed) Draw(tag string, bound uint64, parts ...uint64) uint64 {
	if bound == 0 {
		panic(fmt.Sprintf("engine: draw %q with zero bound", tag))
	}
	d := s.Digest(tag, parts...)
	n := new(big.Int).SetBytes(d[:])
	return n.Mod(n, new(big.Int).SetUint64(bound)).Uint64()
}

// Sample selects k distinct values from 0..n-1 by successive selection from a shrinking
// pool. Draw j uses parts (prefix..., j).
func (s Seed) Sample(tag string, n, k int, prefix ...uint64) []int {
	if k > n {
		k = n
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}

	picks := make([]int, 0, k)
	parts := append(append(make([]uint64, 0, len(prefix)+1), prefix...), 0)
	for j := 0; j < k; j++ {
		parts[len(parts)-1] = uint64(j)
		idx := int(s.Draw(tag, uint64(len(pool)), parts...))
		picks = append(picks, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return picks
}
