package env

import "math"

// ShapeRegularizer maintains a price-sorted log of (state, normalized
// action) observations and scores each new observation against a soft
// economic prior: the hedge ratio should be a concave function of price.
// Action patterns that look locally convex are penalized.
//
// The log grows by exactly one pair per step, is owned by a single episode,
// and is never shrunk. Each Observe costs O(n) for the sorted insertion
// plus O(n) for the triple enumeration, so a full episode is O(L^2);
// episode lengths are bounded, so this stays cheap.
type ShapeRegularizer struct {
	weight  float64
	cap     float64
	states  []float64
	actions []float64
}

// NewShapeRegularizer creates a regularizer with the given penalty weight
// and per-triple cap. capacity pre-sizes the log; the horizon is known so
// the log never reallocates.
func NewShapeRegularizer(weight, cap float64, capacity int) *ShapeRegularizer {
	return &ShapeRegularizer{
		weight:  weight,
		cap:     cap,
		states:  make([]float64, 0, capacity),
		actions: make([]float64, 0, capacity),
	}
}

// Len returns the number of logged observations.
func (r *ShapeRegularizer) Len() int { return len(r.states) }

// States returns the logged state values in sorted order. The returned
// slice is the regularizer's own backing store; callers must not mutate it.
func (r *ShapeRegularizer) States() []float64 { return r.states }

// insert restores sorted order after an append: it scans backward from the
// new element, shifting strictly larger entries one slot right, and returns
// the final insertion index.
func (r *ShapeRegularizer) insert() int {
	n := len(r.states)
	state, action := r.states[n-1], r.actions[n-1]
	j := n - 2
	for j >= 0 && state < r.states[j] {
		r.states[j+1] = r.states[j]
		r.actions[j+1] = r.actions[j]
		j--
	}
	r.states[j+1] = state
	r.actions[j+1] = action
	return j + 1
}

// Violation scores one triple of observations, pre-sorted s0 <= s1 <= s2.
// Degenerate triples that cannot form a finite slope from the anchor score
// zero. Two secant slopes are taken from the anchor (s0, a0); a
// non-increasing slope pair is consistent with a concave shape and scores
// zero, otherwise the penalty is a capped quadratic in the slope gap.
func (r *ShapeRegularizer) Violation(s0, s1, s2, a0, a1, a2 float64) float64 {
	if s1 == s0 || s2 == s0 {
		return 0
	}
	grad1 := (a1 - a0) / (s1 - s0)
	grad2 := (a2 - a0) / (s2 - s0)
	if grad1 >= grad2 {
		return 0
	}
	gap := grad2 - grad1
	return math.Min(r.cap, r.weight*gap*gap)
}

// Observe appends one (state, action) pair, restores sorted order, and
// returns the concavity penalty for the updated log.
//
// Triples are anchored at the log's first (smallest-state) element and pair
// the anchor with the newly inserted element and each other element. The
// enumeration is split around the insertion index so the three states
// passed to Violation are always ascending. With two or fewer points there
// is no curvature to evaluate and the penalty is zero; otherwise the result
// is the mean over the n-2 non-anchor triples.
func (r *ShapeRegularizer) Observe(state, action float64) float64 {
	r.states = append(r.states, state)
	r.actions = append(r.actions, action)
	j := r.insert()

	n := len(r.states)
	if n <= 2 {
		return 0
	}

	var penalty float64
	for i := 1; i < j; i++ {
		penalty += r.Violation(r.states[0], r.states[i], r.states[j],
			r.actions[0], r.actions[i], r.actions[j])
	}
	for i := j + 1; i < n; i++ {
		penalty += r.Violation(r.states[0], r.states[j], r.states[i],
			r.actions[0], r.actions[j], r.actions[i])
	}
	return penalty / float64(n-2)
}
