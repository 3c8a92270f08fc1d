package perm

import (
	"math/big"
	"slices"
)

// Seq returns the sequence [0, 1, ..., n-1]. For n <= 0 it returns an
// empty slice.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n! as a big integer. For n <= 1, Factorial returns 1.
func Factorial(n int) *big.Int {
	if n <= 1 {
		return big.NewInt(1)
	}
	return new(big.Int).MulRange(2, int64(n))
}

// Generate returns permutations of [0, 1, ..., n-1] using Heap's algorithm.
//
// If limit > 0, Generate returns at most limit permutations.
// If limit <= 0, Generate returns all n! permutations, so keep n small.
//
// Each returned permutation owns its image array.
func Generate(n, limit int) []Permutation {
	if n <= 1 {
		return []Permutation{Identity(max(n, 0))}
	}

	cur := Seq(n)
	state := make([]int, n)

	capacity := limit
	if capacity <= 0 || n <= 8 {
		capacity = int(Factorial(min(n, 8)).Int64())
	}
	result := make([]Permutation, 0, capacity)
	result = append(result, Permutation{img: slices.Clone(cur)})

	for i := 0; i < n && (limit <= 0 || len(result) < limit); {
		if state[i] < i {
			if i&1 == 0 {
				cur[0], cur[i] = cur[i], cur[0]
			} else {
				cur[state[i]], cur[i] = cur[i], cur[state[i]]
			}
			result = append(result, Permutation{img: slices.Clone(cur)})
			state[i]++
			i = 0
		} else {
			state[i] = 0
			i++
		}
	}
	return result
}
