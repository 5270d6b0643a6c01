package optimizer

// Default search budgets. The state limit bounds the total number of DP
// cells across the four per-position tables; the node limit bounds the
// group-cap branch-and-bound, which re-solves the relaxation at every node
// and can visit many thousands of nodes on cap-heavy catalogs. Exceeding
// either falls back to heuristic mode rather than failing the request.
const (
	defaultStateLimit = 50_000_000
	defaultNodeLimit  = 1_000_000
)

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithMode sets the default optimality mode.
func WithMode(m Mode) Option {
	return func(s *Selector) {
		if m == ModeExact || m == ModeHeuristic {
			s.mode = m
		}
	}
}

// WithStateLimit caps the exact-mode DP state space.
func WithStateLimit(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.stateLimit = n
		}
	}
}

// WithNodeLimit caps the exact-mode branch-and-bound node count.
func WithNodeLimit(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.nodeLimit = n
		}
	}
}
