package highlight

type Config struct {
	ESWeight      float64
	GraphWeight   float64
	MaxCandidates int
}

const (
	defaultESWeight      = 0.6
	defaultGraphWeight   = 0.4
	defaultMaxCandidates = 200
	defaultPageSize      = 20
)

func DefaultConfig() Config {
	return Config{
		ESWeight:      defaultESWeight,
		GraphWeight:   defaultGraphWeight,
		MaxCandidates: defaultMaxCandidates,
	}
}
