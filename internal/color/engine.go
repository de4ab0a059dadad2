package color

import (
	"sync"
)

// Cache names used as metric labels.
const (
	CacheRGB       = "rgb"
	CacheHSV       = "hsv"
	CacheLuminance = "luminance"
	CacheContrast  = "contrast"
)

// memo is a monotonic memoization table. Entries are never replaced: when two
// goroutines compute the same key concurrently, the first stored value wins and
// both observe it.
type memo[K comparable, V any] struct {
	name    string
	entries sync.Map
	metrics *Metrics
}

func (m *memo[K, V]) get(key K, compute func() (V, error)) (V, error) {
	if v, ok := m.entries.Load(key); ok {
		m.metrics.hit(m.name)
		return v.(V), nil
	}
	m.metrics.miss(m.name)

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	actual, _ := m.entries.LoadOrStore(key, v)
	return actual.(V), nil
}

func (m *memo[K, V]) len() int {
	n := 0
	m.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// pairKey is an unordered pair of canonical colors, stored low-high.
type pairKey struct {
	lo, hi Color
}

func newPairKey(a, b Color) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// Engine owns the conversion caches. The zero value is not usable; construct
// one with NewEngine and share it across goroutines.
type Engine struct {
	rgb       memo[Color, RGB]
	hsv       memo[Color, HSV]
	luminance memo[Color, float64]
	contrast  memo[pairKey, float64]
	metrics   *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics records cache hits and misses on m.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates an Engine with empty caches.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	e.rgb.name, e.rgb.metrics = CacheRGB, e.metrics
	e.hsv.name, e.hsv.metrics = CacheHSV, e.metrics
	e.luminance.name, e.luminance.metrics = CacheLuminance, e.metrics
	e.contrast.name, e.contrast.metrics = CacheContrast, e.metrics
	return e
}

// CacheSizes reports the number of memoized entries per cache.
func (e *Engine) CacheSizes() map[string]int {
	return map[string]int{
		CacheRGB:       e.rgb.len(),
		CacheHSV:       e.hsv.len(),
		CacheLuminance: e.luminance.len(),
		CacheContrast:  e.contrast.len(),
	}
}
