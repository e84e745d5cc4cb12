package env

import (
	"math"
	"sort"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: after any sequence of Observe calls, the shape log's state
// values are non-decreasing.
func TestProperty_ShapeLogStaysSorted(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	pairsGen := gen.SliceOf(gen.Float64Range(10, 500))

	properties.Property("state values stay sorted after every insertion", prop.ForAll(
		func(states []float64) bool {
			reg := NewShapeRegularizer(1.0, 100, len(states))
			for i, s := range states {
				reg.Observe(s, float64(i%7)-3)
				if !sort.Float64sAreSorted(reg.States()) {
					return false
				}
			}
			return reg.Len() == len(states)
		},
		pairsGen,
	))

	properties.TestingRun(t)
}

// Property: any triple lying on a concave polyline (first secant slope at
// least the second) scores zero.
func TestProperty_ConcaveTripleNoPenalty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("concave triples score zero", prop.ForAll(
		func(s0, gap1, gap2, a0, grad2, slopeGap float64) bool {
			s1 := s0 + gap1
			s2 := s1 + gap2
			grad1 := grad2 + slopeGap // grad1 >= grad2
			a1 := a0 + grad1*(s1-s0)
			a2 := a0 + grad2*(s2-s0)

			reg := NewShapeRegularizer(1.0, 100, 3)
			return reg.Violation(s0, s1, s2, a0, a1, a2) == 0
		},
		gen.Float64Range(10, 100),
		gen.Float64Range(0.1, 50),
		gen.Float64Range(0.1, 50),
		gen.Float64Range(-5, 5),
		gen.Float64Range(-3, 3),
		gen.Float64Range(0.01, 10),
	))

	properties.TestingRun(t)
}

// Property: for engineered slope gaps the penalty never exceeds the cap,
// and equals weight*(grad2-grad1)^2 whenever that is below the cap.
func TestProperty_PenaltyCapAndQuadratic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	const weight, cap = 2.0, 5.0

	properties.Property("convex triples score a capped quadratic", prop.ForAll(
		func(s0, gap1, gap2, a0, grad1, slopeGap float64) bool {
			s1 := s0 + gap1
			s2 := s1 + gap2
			grad2 := grad1 + slopeGap // grad2 > grad1: convex
			a1 := a0 + grad1*(s1-s0)
			a2 := a0 + grad2*(s2-s0)

			reg := NewShapeRegularizer(weight, cap, 3)
			got := reg.Violation(s0, s1, s2, a0, a1, a2)
			if got > cap {
				return false
			}

			// Recover the slope gap the same way the evaluator does, so the
			// comparison is exact up to float noise.
			g1 := (a1 - a0) / (s1 - s0)
			g2 := (a2 - a0) / (s2 - s0)
			if g1 >= g2 {
				return got == 0
			}
			want := math.Min(cap, weight*(g2-g1)*(g2-g1))
			return math.Abs(got-want) < 1e-9
		},
		gen.Float64Range(10, 100),
		gen.Float64Range(0.5, 50),
		gen.Float64Range(0.5, 50),
		gen.Float64Range(-5, 5),
		gen.Float64Range(-3, 3),
		gen.Float64Range(1e-3, 10),
	))

	properties.TestingRun(t)
}

// Property: triples that cannot form a finite slope from the anchor score
// zero.
func TestProperty_DegenerateTriplesScoreZero(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("equal-state triples score zero", prop.ForAll(
		func(s0, s2, a0, a1, a2 float64) bool {
			reg := NewShapeRegularizer(1.0, 100, 3)
			return reg.Violation(s0, s0, s2, a0, a1, a2) == 0 &&
				reg.Violation(s0, s0, s0, a0, a1, a2) == 0
		},
		gen.Float64Range(10, 100),
		gen.Float64Range(100, 500),
		gen.Float64Range(-5, 5),
		gen.Float64Range(-5, 5),
		gen.Float64Range(-5, 5),
	))

	properties.TestingRun(t)
}

func TestShapeRegularizerShortLog(t *testing.T) {
	reg := NewShapeRegularizer(1.0, 100, 8)
	if p := reg.Observe(100, 1); p != 0 {
		t.Errorf("penalty with one point = %v, want 0", p)
	}
	if p := reg.Observe(90, -1); p != 0 {
		t.Errorf("penalty with two points = %v, want 0", p)
	}
}

func TestShapeRegularizerConvexSequencePenalized(t *testing.T) {
	// Actions on a strictly convex curve of price should be penalized once
	// three points are logged.
	reg := NewShapeRegularizer(1.0, 100, 8)
	reg.Observe(100, 0)
	reg.Observe(110, 1)
	p := reg.Observe(120, 4)
	if p <= 0 {
		t.Errorf("penalty for convex pattern = %v, want > 0", p)
	}

	// grad1 = 0.1, grad2 = 0.2 from the anchor (100, 0); the single triple
	// scores (0.2-0.1)^2 and n-2 = 1.
	want := 0.01
	if math.Abs(p-want) > 1e-12 {
		t.Errorf("penalty = %v, want %v", p, want)
	}
}

func TestShapeRegularizerConcaveSequenceUnpenalized(t *testing.T) {
	reg := NewShapeRegularizer(1.0, 100, 8)
	reg.Observe(100, 0)
	reg.Observe(110, 2)
	if p := reg.Observe(120, 3); p != 0 {
		t.Errorf("penalty for concave pattern = %v, want 0", p)
	}
}

func TestShapeRegularizerInsertionOrder(t *testing.T) {
	reg := NewShapeRegularizer(1.0, 100, 8)
	for _, s := range []float64{130, 100, 120, 110} {
		reg.Observe(s, 0)
	}
	want := []float64{100, 110, 120, 130}
	states := reg.States()
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, want %v", states, want)
		}
	}
}
