package locator

import "sync/atomic"

type resolverCounters struct {
	builds        atomic.Int64
	buildFailures atomic.Int64
	lookups       atomic.Int64
	hits          atomic.Int64
	conversions   atomic.Int64
}

// ResolverStats is a point-in-time copy of resolver counters
type ResolverStats struct {
	Builds        int64 // index builds attempted
	BuildFailures int64
	Lookups       int64 // Resolve calls that reached the index
	Hits          int64
	Conversions   int64 // converter invocations
}

// Stats returns the current counters
func (r *Resolver) Stats() ResolverStats {
	return ResolverStats{
		Builds:        r.stats.builds.Load(),
		BuildFailures: r.stats.buildFailures.Load(),
		Lookups:       r.stats.lookups.Load(),
		Hits:          r.stats.hits.Load(),
		Conversions:   r.stats.conversions.Load(),
	}
}
