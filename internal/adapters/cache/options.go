package cache

// Option applies a configuration option to the ResultCache.
type Option func(*ResultCache)

// WithMaxSize bounds the number of cached results.
func WithMaxSize(n int) Option {
	return func(c *ResultCache) {
		if n > 0 {
			c.maxSize = n
		}
	}
}
