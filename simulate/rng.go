// SPDX-License-Identifier: MIT

package simulate

import "math/rand"

// DefaultSeed is used when callers pass seed 0 or a nil generator.
const DefaultSeed int64 = 1

// NewRand returns a deterministic generator; seed 0 selects DefaultSeed.
// A *rand.Rand is not safe for concurrent use: give each goroutine its own.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent seed and a stream number (SplitMix64 finalizer),
// so neighbouring trial numbers get uncorrelated generators.
//
// Complexity: O(1).
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// TrialRand returns the generator RunTrials uses for trial i.
func TrialRand(seed int64, i int) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}

	return rand.New(rand.NewSource(deriveSeed(seed, uint64(i))))
}
