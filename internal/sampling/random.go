// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sampling

// Linear congruential generator constants. The recurrence must stay fixed
// so a given seed reproduces the same sample everywhere.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Random is a small deterministic generator. It is not suitable for
// anything security related.
type Random struct {
	state int64
}

// NewRandom seeds a generator. Seeds are reduced modulo the generator's
// modulus so negative seeds are accepted.
func NewRandom(seed int64) *Random {
	return &Random{state: mod(seed, lcgModulus)}
}

// Float64 advances the generator and returns a value in [0, 1).
func (r *Random) Float64() float64 {
	r.state = mod(r.state*lcgMultiplier+lcgIncrement, lcgModulus)
	return float64(r.state) / lcgModulus
}

func mod(a, m int64) int64 {
	a %= m
	if a < 0 {
		a += m
	}
	return a
}

// Sample returns k items drawn by a partial Fisher–Yates shuffle seeded with
// seed. The input slice is not modified. For k >= len(items) a copy of the
// input is returned in its original order.
func Sample[T any](items []T, k int, seed int64) []T {
	out := make([]T, len(items))
	copy(out, items)
	if k >= len(out) {
		return out
	}
	if k <= 0 {
		return []T{}
	}

	rng := NewRandom(seed)
	n := len(out)
	for i := 0; i < k; i++ {
		j := i + int(rng.Float64()*float64(n-i))
		out[i], out[j] = out[j], out[i]
	}
	return out[:k]
}
