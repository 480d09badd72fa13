package searcher

// DefaultExploration is the PUCT constant tuned for rollout evaluation.
const DefaultExploration = 0.01

type puct struct {
	numerator float64
}

// newPUCT precomputes c * N_total, where N_total is the sum of the children's visits.
func newPUCT(c float64, total int) puct {
	if c < 0 {
		panic("exploration constant cannot be negative")
	}
	return puct{numerator: c * float64(total)}
}

func (p puct) evaluate(q, prior float64, n int) float64 {
	// PUCT = q + c*P*N_total/(1+n)
	return q + prior*p.numerator/(1+float64(n))
}
