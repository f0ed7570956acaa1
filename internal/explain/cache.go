package explain

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/betbuilder/internal/models"
)

// CachingGenerator memoises explanations per fixture and market list so a
// re-run of the pipeline on the same day does not re-hit the text service.
type CachingGenerator struct {
	inner Generator
	cache *gocache.Cache
}

func NewCachingGenerator(inner Generator, ttl time.Duration) *CachingGenerator {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachingGenerator{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (g *CachingGenerator) Explain(ctx context.Context, bet models.CombinationBet, fixture models.Fixture) (string, error) {
	key := cacheKey(bet)
	if v, ok := g.cache.Get(key); ok {
		return v.(string), nil
	}

	text, err := g.inner.Explain(ctx, bet, fixture)
	if err != nil {
		return "", err
	}
	g.cache.Set(key, text, gocache.DefaultExpiration)
	return text, nil
}

// cacheKey includes the market list so a bet rebuilt with different
// members gets fresh text.
func cacheKey(bet models.CombinationBet) string {
	key := fmt.Sprintf("%d:%s", bet.FixtureID, bet.BetDate.Format("2006-01-02"))
	for _, m := range bet.Markets {
		key += ":" + string(m.Market)
	}
	return key
}
