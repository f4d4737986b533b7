// Package estimate projects the token and cost impact of a trim run. It
// consumes trim metrics as an opaque record; all numbers here are
// heuristics (chars/4 tokenization, prompt-cache pricing), not ground
// truth.
package estimate

import (
	"fmt"
	"sort"

	"github.com/lazypower/cmv/internal/trim"
)

const (
	contextLimit   = 200_000
	systemOverhead = 20_000
	charsPerToken  = 4

	// Steady-state prompt cache hit rate assumed for per-turn costs.
	cacheHitRate = 0.90

	maxTurns = 60
)

// Pricing is dollars per million tokens for one model.
type Pricing struct {
	Name       string
	Input      float64
	CacheWrite float64
	CacheRead  float64
}

var models = map[string]Pricing{
	"sonnet": {Name: "Sonnet 4", Input: 3.00, CacheWrite: 3.75, CacheRead: 0.30},
	"opus":   {Name: "Opus 4.6", Input: 5.00, CacheWrite: 6.25, CacheRead: 0.50},
	"haiku":  {Name: "Haiku 4.5", Input: 1.00, CacheWrite: 1.25, CacheRead: 0.10},
}

// Projection is the estimated impact of one trim.
type Projection struct {
	Model          string  `json:"model"`
	TokensBefore   int     `json:"tokensBefore"`
	TokensAfter    int     `json:"tokensAfter"`
	ReductionPct   float64 `json:"reductionPct"`
	ContextPctFree float64 `json:"contextPctFreed"`
	SavingsPerTurn float64 `json:"savingsPerTurn"`   // dollars, steady state
	CacheMissCost  float64 `json:"cacheMissPenalty"` // dollars, one-time rewrite of the trimmed prompt
	BreakevenTurns int     `json:"breakevenTurns"`   // turns until the cache-miss penalty is repaid
}

// Models returns the known model keys, sorted.
func Models() []string {
	keys := make([]string, 0, len(models))
	for k := range models {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Project estimates the impact of a trim for the given model key.
func Project(m *trim.Metrics, model string) (*Projection, error) {
	pricing, ok := models[model]
	if !ok {
		return nil, fmt.Errorf("unknown model %q (known: %v)", model, Models())
	}

	before := tokens(m.OriginalBytes)
	after := tokens(m.TrimmedBytes)

	p := &Projection{
		Model:          pricing.Name,
		TokensBefore:   before,
		TokensAfter:    after,
		SavingsPerTurn: costPerTurn(before, pricing) - costPerTurn(after, pricing),
		CacheMissCost:  coldCost(after, pricing),
		BreakevenTurns: breakeven(before, after, pricing),
	}
	if before > 0 {
		p.ReductionPct = float64(before-after) / float64(before) * 100
	}
	p.ContextPctFree = float64(before-after) / contextLimit * 100
	return p, nil
}

func tokens(bytes int64) int {
	return int(bytes)/charsPerToken + systemOverhead
}

// costPerTurn is the steady-state input cost of one turn: most of the
// prompt reads from cache, the rest is written fresh.
func costPerTurn(tok int, p Pricing) float64 {
	cached := float64(tok) * cacheHitRate
	fresh := float64(tok) * (1 - cacheHitRate)
	return cached/1e6*p.CacheRead + fresh/1e6*p.CacheWrite
}

// coldCost is the first turn after a trim, when the whole prompt misses
// the cache.
func coldCost(tok int, p Pricing) float64 {
	return float64(tok) / 1e6 * p.CacheWrite
}

// breakeven returns the first turn at which the cumulative cost with the
// trim drops to or below the cost without it.
func breakeven(before, after int, p Pricing) int {
	pre := costPerTurn(before, p)
	steady := costPerTurn(after, p)
	first := coldCost(after, p)

	for turn := 1; turn <= maxTurns; turn++ {
		noTrim := pre * float64(turn)
		withTrim := first + steady*float64(turn-1)
		if noTrim >= withTrim {
			return turn
		}
	}
	return maxTurns
}
