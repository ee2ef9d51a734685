package app

import (
	"context"
	"sync"

	"tokenlint/internal/core/errors"
	"tokenlint/internal/engine/document"
	"tokenlint/internal/engine/provenance"
	"tokenlint/internal/shared/observability"
	"tokenlint/internal/shared/util"
)

type cachedResolution struct {
	res provenance.Resolution
	ok  bool
}

// scanResolver wraps the session resolver for one scan. Successful lookups are memoized for
// the scan's lifetime and calls are throttled by the limiter. Errors are never cached.
type scanResolver struct {
	inner   provenance.Resolver
	limiter *util.Limiter
	cache   map[document.Binding]cachedResolution

	mu sync.Mutex
}

func newScanResolver(inner provenance.Resolver, limiter *util.Limiter, cache bool) *scanResolver {
	r := &scanResolver{inner: inner, limiter: limiter}
	if cache {
		r.cache = make(map[document.Binding]cachedResolution)
	}
	return r
}

func (r *scanResolver) Resolve(ctx context.Context, b document.Binding) (provenance.Resolution, bool, error) {
	if r.cache != nil {
		r.mu.Lock()
		hit, found := r.cache[b]
		r.mu.Unlock()
		if found {
			observability.ResolverLookupsTotal.WithLabelValues("cached").Inc()
			return hit.res, hit.ok, nil
		}
	}

	if r.limiter != nil && !r.limiter.Unlimited() {
		if err := r.limiter.Wait(ctx, 1); err != nil {
			observability.ResolverLookupsTotal.WithLabelValues("error").Inc()
			return provenance.Resolution{}, false, err
		}
	}

	res, ok, err := r.inner.Resolve(ctx, b)
	switch {
	case err != nil:
		observability.ResolverLookupsTotal.WithLabelValues("error").Inc()
		err = errors.Wrap(err, errors.CodeInternal, "resolve binding")
		return provenance.Resolution{}, false, errors.AddContext(err, errors.CtxBinding, b.ID)
	case ok:
		observability.ResolverLookupsTotal.WithLabelValues("hit").Inc()
	default:
		observability.ResolverLookupsTotal.WithLabelValues("miss").Inc()
	}

	if r.cache != nil {
		r.mu.Lock()
		r.cache[b] = cachedResolution{res: res, ok: ok}
		r.mu.Unlock()
	}
	return res, ok, nil
}
