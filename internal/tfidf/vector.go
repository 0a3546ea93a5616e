package tfidf

import "math"

// Vector is a sparse vector over a Vocabulary. Indices are strictly increasing
// and Weights[i] belongs to Indices[i].
type Vector struct {
	Indices []int
	Weights []float64
}

// IsZero reports whether the vector has no non-zero weight.
func (v Vector) IsZero() bool {
	for _, w := range v.Weights {
		if w != 0 {
			return false
		}
	}
	return true
}

// Norm returns the L2 norm.
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v.Weights {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Normalize returns a unit-length copy. A zero vector stays zero.
func (v Vector) Normalize() Vector {
	norm := v.Norm()
	out := Vector{
		Indices: append([]int(nil), v.Indices...),
		Weights: make([]float64, len(v.Weights)),
	}
	if norm == 0 {
		return out
	}
	for i, w := range v.Weights {
		out.Weights[i] = w / norm
	}
	return out
}

// Weight returns the weight stored for idx, zero when absent.
func (v Vector) Weight(idx int) float64 {
	lo, hi := 0, len(v.Indices)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case v.Indices[mid] == idx:
			return v.Weights[mid]
		case v.Indices[mid] < idx:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0
}

// Dot is the inner product of two vectors over the same Vocabulary.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	v.Overlap(o, func(_ int, a, b float64) {
		sum += a * b
	})
	return sum
}

// Overlap calls fn for every index present in both vectors, in increasing order.
func (v Vector) Overlap(o Vector, fn func(idx int, a, b float64)) {
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			fn(v.Indices[i], v.Weights[i], o.Weights[j])
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
}
