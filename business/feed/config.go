package feed

type Config struct {
	MaxCandidates  int
	MaxCachedItems int
	DefaultLimit   int
	RefreshLimit   int
	// ExposureFilterLimit is how many recently shown reviews are kept out
	// of a fresh review feed.
	ExposureFilterLimit int
}

const (
	defaultMaxCandidates       = 200
	defaultMaxCachedItems      = 100
	defaultLimit               = 20
	defaultRefreshLimit        = 50
	defaultExposureFilterLimit = 200
)

func DefaultConfig() Config {
	return Config{
		MaxCandidates:       defaultMaxCandidates,
		MaxCachedItems:      defaultMaxCachedItems,
		DefaultLimit:        defaultLimit,
		RefreshLimit:        defaultRefreshLimit,
		ExposureFilterLimit: defaultExposureFilterLimit,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = defaultMaxCandidates
	}
	if c.MaxCachedItems <= 0 {
		c.MaxCachedItems = defaultMaxCachedItems
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = defaultLimit
	}
	if c.RefreshLimit <= 0 {
		c.RefreshLimit = defaultRefreshLimit
	}
	if c.ExposureFilterLimit <= 0 {
		c.ExposureFilterLimit = defaultExposureFilterLimit
	}
	return c
}
