package sampling

import (
	"math/rand"
	"strings"
)

type Strategy string

const (
	StrategyNone    Strategy = "NONE"
	StrategyPartial Strategy = "PARTIAL"
	StrategyWindow  Strategy = "WINDOW"
	StrategyFull    Strategy = "FULL"
)

const defaultWindowSize = 8

// ParseStrategy maps a config string onto a Strategy. Unknown names fall back
// to StrategyNone.
func ParseStrategy(s string) Strategy {
	st := Strategy(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := strategies[st]; ok {
		return st
	}
	return StrategyNone
}

type ShuffleConfig struct {
	FixedTopN  int
	WindowSize int
}

// shuffleFunc reorders the index slice idx in place.
type shuffleFunc func(idx []int, cfg ShuffleConfig, rng *rand.Rand)

var strategies = map[Strategy]shuffleFunc{
	StrategyNone:    shuffleNone,
	StrategyPartial: shufflePartial,
	StrategyWindow:  shuffleWindow,
	StrategyFull:    shuffleFull,
}

func strategyFor(s Strategy) shuffleFunc {
	if fn, ok := strategies[s]; ok {
		return fn
	}
	return shuffleNone
}

func shuffleNone([]int, ShuffleConfig, *rand.Rand) {}

func shuffleFull(idx []int, _ ShuffleConfig, rng *rand.Rand) {
	rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
}

// shufflePartial keeps the first FixedTopN positions and permutes the rest.
func shufflePartial(idx []int, cfg ShuffleConfig, rng *rand.Rand) {
	fixed := max(cfg.FixedTopN, 0)
	if fixed >= len(idx) {
		return
	}
	shuffleFull(idx[fixed:], cfg, rng)
}

// shuffleWindow permutes each consecutive WindowSize chunk independently.
func shuffleWindow(idx []int, cfg ShuffleConfig, rng *rand.Rand) {
	w := cfg.WindowSize
	if w <= 0 {
		w = defaultWindowSize
	}
	for start := 0; start < len(idx); start += w {
		end := min(start+w, len(idx))
		shuffleFull(idx[start:end], cfg, rng)
	}
}

// Permute returns the order in which the n items of one tier are emitted.
func Permute(n int, strategy Strategy, cfg ShuffleConfig, rng *rand.Rand) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if n > 1 {
		strategyFor(strategy)(idx, cfg, rng)
	}
	return idx
}
