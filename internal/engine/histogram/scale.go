package histogram

// Scale maps a domain interval linearly onto a range interval.
type Scale struct {
	Domain [2]float64
	Range  [2]float64
}

// Map converts a domain value to its range position.
func (s Scale) Map(v float64) float64 {
	d := s.Domain[1] - s.Domain[0]
	if d == 0 {
		return s.Range[0]
	}
	return s.Range[0] + (v-s.Domain[0])/d*(s.Range[1]-s.Range[0])
}

// Invert converts a range position back to a domain value.
func (s Scale) Invert(px float64) float64 {
	r := s.Range[1] - s.Range[0]
	if r == 0 {
		return s.Domain[0]
	}
	return s.Domain[0] + (px-s.Range[0])/r*(s.Domain[1]-s.Domain[0])
}

// Clamp limits v to the domain.
func (s Scale) Clamp(v float64) float64 {
	lo, hi := s.Domain[0], s.Domain[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
