package sampling

import "time"

// TierConfig describes one contiguous slice of the ranked list. FixedTopN is
// the pinned prefix for PARTIAL and the window length for WINDOW.
type TierConfig struct {
	Size      int
	Strategy  Strategy
	FixedTopN int
}

type Config struct {
	Enabled     bool
	Tiers       []TierConfig
	BucketWidth time.Duration
}

const defaultBucketWidth = 60 * time.Second

func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Tiers: []TierConfig{
			{Size: 10, Strategy: StrategyPartial, FixedTopN: 3},
			{Size: 40, Strategy: StrategyWindow, FixedTopN: 8},
			{Size: 50, Strategy: StrategyFull},
		},
		BucketWidth: defaultBucketWidth,
	}
}
