package firstplayer

import "github.com/MJE43/triad-replay-go/internal/engine"

// BuildChoiceCommit binds player to a 0/1 first-player choice for the match salt.
func BuildChoiceCommit(salt engine.Hash, player engine.Address, choice uint8, nonce engine.Hash) engine.Hash {
	return engine.NewWords(4).
		Hash(salt).
		Address(player).
		Uint(uint64(choice)).
		Hash(nonce).
		Sum()
}

// VerifyChoiceCommit reports whether commit opens to (salt, player, choice, nonce).
func VerifyChoiceCommit(commit, salt engine.Hash, player engine.Address, choice uint8, nonce engine.Hash) bool {
	return commit == BuildChoiceCommit(salt, player, choice, nonce)
}

// BuildRevealCommit binds player to a coin-toss secret.
func BuildRevealCommit(salt engine.Hash, player engine.Address, reveal engine.Hash) engine.Hash {
	return engine.NewWords(3).
		Hash(salt).
		Address(player).
		Hash(reveal).
		Sum()
}

// VerifyRevealCommit reports whether commit opens to (salt, player, reveal).
func VerifyRevealCommit(commit, salt engine.Hash, player engine.Address, reveal engine.Hash) bool {
	return commit == BuildRevealCommit(salt, player, reveal)
}

// CoinToss mixes both secrets with the salt; the low bit of the digest is the first player.
func CoinToss(salt, revealA, revealB engine.Hash) uint8 {
	d := engine.NewWords(3).Hash(salt).Hash(revealA).Hash(revealB).Sum()
	return d[len(d)-1] & 1
}

// SeedCommit commits to a single seed ahead of the match.
func SeedCommit(seed engine.Hash) engine.Hash {
	return engine.NewWords(1).Hash(seed).Sum()
}

// VerifySeedCommit reports whether commit opens to seed.
func VerifySeedCommit(commit, seed engine.Hash) bool {
	return commit == SeedCommit(seed)
}

// SeedParity derives the first player from a revealed seed and the salt.
func SeedParity(salt, seed engine.Hash) uint8 {
	d := engine.NewWords(2).Hash(salt).Hash(seed).Sum()
	return d[len(d)-1] & 1
}
