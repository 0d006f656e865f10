package teamtl

import (
	"context"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

const flightShards = 32

// flightGroup deduplicates concurrent refreshes. Flights are keyed by the cache
// key plus the full source text, so callers that observed different histories
// never share a result. xxhash only picks the shard.
type flightGroup struct {
	shards [flightShards]*singleflight.Group
}

func newFlightGroup() *flightGroup {
	g := &flightGroup{}
	for i := range g.shards {
		g.shards[i] = &singleflight.Group{}
	}
	return g
}

func (g *flightGroup) do(ctx context.Context, key CacheKey, text string, fn func(context.Context) (*Result, error)) (*Result, error) {
	id := flightID(key, text)
	shard := g.shards[xxhash.Sum64String(id)%flightShards]

	ch := shard.DoChan(id, func() (interface{}, error) {
		// Waiters honour their own ctx below; the shared call ignores cancellation.
		return fn(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Result), nil
	case <-ctx.Done():
		// Reported like a cancelled provider call.
		return nil, asProviderError(ctx.Err())
	}
}

func flightID(key CacheKey, text string) string {
	return key.String() + "#" + text
}
