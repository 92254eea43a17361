package calc

import (
	"github.com/voltflow/voltflow-go/internal/cache"
	"github.com/voltflow/voltflow-go/internal/observability"
)

// CachedEvaluator memoizes Engine.Evaluate by input fingerprint. Each
// instance owns its cache, so independent sessions and tests never share
// state.
type CachedEvaluator struct {
	engine  *Engine
	memo    *cache.Memoizer[VoltageDropResult]
	metrics *observability.Metrics
}

// NewCachedEvaluator wraps the engine with a fresh memoization cache.
// metrics may be nil.
func NewCachedEvaluator(engine *Engine, metrics *observability.Metrics) *CachedEvaluator {
	return &CachedEvaluator{
		engine:  engine,
		memo:    cache.NewMemoizer[VoltageDropResult](),
		metrics: metrics,
	}
}

// Engine returns the wrapped engine.
func (ce *CachedEvaluator) Engine() *Engine {
	return ce.engine
}

// Evaluate returns the cached result for the inputs, computing it on a miss.
// Validation errors are never cached.
func (ce *CachedEvaluator) Evaluate(inputs VoltageDropInputs) (VoltageDropResult, error) {
	key := KeyFor(inputs)

	if result, ok := ce.memo.Get(key); ok {
		ce.metrics.RecordCacheHit()
		return result, nil
	}
	ce.metrics.RecordCacheMiss()

	result, err := ce.engine.Evaluate(inputs)
	if err != nil {
		ce.metrics.RecordEvaluation("error")
		return VoltageDropResult{}, err
	}
	ce.metrics.RecordEvaluation("success")

	ce.memo.Set(key, result)
	ce.metrics.SetCacheSize(ce.memo.Size())
	return result, nil
}

// Has reports whether the inputs are already cached.
func (ce *CachedEvaluator) Has(inputs VoltageDropInputs) bool {
	return ce.memo.Has(KeyFor(inputs))
}

// Invalidate drops all cached results. The change tracker calls this when a
// voltage-drop-relevant circuit property is edited.
func (ce *CachedEvaluator) Invalidate() {
	ce.memo.Clear()
	ce.metrics.SetCacheSize(0)
}

// CacheSize returns the number of cached results.
func (ce *CachedEvaluator) CacheSize() int {
	return ce.memo.Size()
}
