package env

// Box describes a bounded real-vector space, mirroring the space
// declarations a host training loop expects to read from an environment.
type Box struct {
	Low  []float64
	High []float64
}

// Dim returns the dimensionality of the space.
func (b Box) Dim() int { return len(b.Low) }

// Observation is the externally visible state after a step: the current
// hedge position, the remaining time to maturity, and the underlying price.
type Observation struct {
	Position       int
	TimeToMaturity float64
	Price          float64
}

// Vector returns the observation as the length-3 vector
// [position, timeToMaturity, price].
func (o Observation) Vector() [3]float64 {
	return [3]float64{float64(o.Position), o.TimeToMaturity, o.Price}
}

// ActionSpace returns the declared action space: a length-1 vector in
// [-1, 1], rescaled internally by ActionNormalizer.
func (p Parameters) ActionSpace() Box {
	return Box{Low: []float64{-1}, High: []float64{1}}
}

// ObservationSpace returns the declared observation space bounds for
// [position, timeToMaturity, price].
func (p Parameters) ObservationSpace() Box {
	return Box{
		Low:  []float64{-float64(p.OptionSize), 0, p.MinPrice},
		High: []float64{float64(p.OptionSize), float64(p.Horizon), p.MaxPrice},
	}
}
