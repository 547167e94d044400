package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seedVectors struct {
	Salt      Hash     `json:"salt"`
	PlayerA   Address  `json:"playerA"`
	PlayerB   Address  `json:"playerB"`
	RulesetID Hash     `json:"rulesetId"`
	Seed0     Hash     `json:"seed0"`
	Swap      []uint64 `json:"swap"`
	Chaos     []struct {
		Turn   uint64 `json:"turn"`
		Player uint64 `json:"player"`
		Bound  uint64 `json:"bound"`
		Value  uint64 `json:"value"`
	} `json:"chaos"`
	ThreeOpen [][]int `json:"threeOpen"`
}

func loadSeedVectors(t *testing.T) seedVectors {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "golden.json"))
	require.NoError(t, err)
	var file struct {
		Seed seedVectors `json:"seed"`
	}
	require.NoError(t, json.Unmarshal(data, &file))
	return file.Seed
}

func TestSeedGoldenVectors(t *testing.T) {
	v := loadSeedVectors(t)
	seed := DeriveSeed0(v.Salt, v.PlayerA, v.PlayerB, v.RulesetID)
	require.Equal(t, v.Seed0, seed.Hash())

	t.Run("swap", func(t *testing.T) {
		for side, want := range v.Swap {
			assert.Equal(t, want, seed.Draw("classic:swap", 5, uint64(side)), "side %d", side)
		}
	})
	t.Run("chaos", func(t *testing.T) {
		for _, c := range v.Chaos {
			assert.Equal(t, c.Value, seed.Draw("classic:chaos", c.Bound, c.Turn, c.Player),
				"turn %d player %d", c.Turn, c.Player)
		}
	})
	t.Run("three-open", func(t *testing.T) {
		for player, want := range v.ThreeOpen {
			assert.Equal(t, want, seed.Sample("classic:three-open", 5, 3, uint64(player)))
		}
	})
}

func TestDrawIsIndependentOfCallOrder(t *testing.T) {
	seed := SeedFromHash(Keccak256([]byte("order")))
	forward := []uint64{seed.Draw("a", 100, 1), seed.Draw("b", 100, 1), seed.Draw("a", 100, 2)}
	backward := []uint64{seed.Draw("a", 100, 2), seed.Draw("b", 100, 1), seed.Draw("a", 100, 1)}
	assert.Equal(t, forward[0], backward[2])
	assert.Equal(t, forward[1], backward[1])
	assert.Equal(t, forward[2], backward[0])
	assert.NotEqual(t, seed.Digest("a", 1), seed.Digest("b", 1))
	assert.NotEqual(t, seed.Digest("a", 1), seed.Digest("a", 2))
}

func TestDrawZeroBoundPanics(t *testing.T) {
	assert.Panics(t, func() { SeedFromHash(Hash{}).Draw("x", 0) })
}

func TestSampleDistinct(t *testing.T) {
	seed := SeedFromHash(Keccak256([]byte("sample")))
	for player := uint64(0); player < 32; player++ {
		picks := seed.Sample("classic:three-open", 5, 3, player)
		require.Len(t, picks, 3)
		seen := map[int]bool{}
		for _, p := range picks {
			assert.True(t, p >= 0 && p < 5)
			assert.False(t, seen[p], "duplicate pick %d", p)
			seen[p] = true
		}
	}
	assert.Len(t, seed.Sample("x", 2, 5), 2, "k is clamped to n")
}

func TestSeedReproducibility(t *testing.T) {
	v := loadSeedVectors(t)
	reference := DeriveSeed0(v.Salt, v.PlayerA, v.PlayerB, v.RulesetID).Draw("classic:chaos", 5, 0, 0)

	t.Run("Different GOMAXPROCS settings", func(t *testing.T) {
		original := runtime.GOMAXPROCS(0)
		defer runtime.GOMAXPROCS(original)
		for _, procs := range []int{1, 2, 4, runtime.NumCPU()} {
			t.Run(fmt.Sprintf("GOMAXPROCS=%d", procs), func(t *testing.T) {
				runtime.GOMAXPROCS(procs)
				got := DeriveSeed0(v.Salt, v.PlayerA, v.PlayerB, v.RulesetID).Draw("classic:chaos", 5, 0, 0)
				assert.Equal(t, reference, got)
			})
		}
	})

	t.Run("Concurrent access", func(t *testing.T) {
		const goroutines = 10
		var wg sync.WaitGroup
		results := make([]uint64, goroutines)
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for iter := 0; iter < 100; iter++ {
					results[i] = DeriveSeed0(v.Salt, v.PlayerA, v.PlayerB, v.RulesetID).Draw("classic:chaos", 5, 0, 0)
				}
			}(i)
		}
		wg.Wait()
		for i, r := range results {
			assert.Equal(t, reference, r, "goroutine %d", i)
		}
	})
}
