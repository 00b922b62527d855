// Package simhash fingerprints markup structure so that pages of the same
// leaderboard can be compared for layout drift.
package simhash

import (
	"hash/fnv"
	"math/bits"
)

// Fingerprint computes a 64-bit SimHash over tokens using FNV-64a.
// An empty token list yields 0.
func Fingerprint(tokens []string) uint64 {
	if len(tokens) == 0 {
		return 0
	}

	var weights [64]int
	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()
		for i := 0; i < 64; i++ {
			if sum&(1<<uint(i)) != 0 {
				weights[i]++
			} else {
				weights[i]--
			}
		}
	}

	var fp uint64
	for i, w := range weights {
		if w > 0 {
			fp |= 1 << uint(i)
		}
	}
	return fp
}

// Distance returns the Hamming distance between two fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Drifted reports whether b differs from the reference a by more than
// threshold bits.
func Drifted(a, b uint64, threshold int) bool {
	return Distance(a, b) > threshold
}
