package waveform

import (
	"github.com/lachlansneff/ligeia/aggregate"
	"github.com/lachlansneff/ligeia/format"
	"github.com/lachlansneff/ligeia/internal/options"
	"github.com/lachlansneff/ligeia/paged"
)

// Config holds WaveformDB's tunables (§6): per-variant Aggregator choice
// and the PagedAllocator backing its storage.
type Config struct {
	// Allocator is the shared *paged.Allocator to draw storage from. A nil
	// Allocator (the default) makes New construct a private one for this
	// WaveformDB alone (Design Note §9: "tests must reset it or
	// instantiate a private one").
	Allocator *paged.Allocator

	// Aggregators maps each logic variant to the Aggregator its signals'
	// ImplicitForests fold with. Defaulted to the reference
	// TimestepBoundsOrDominates aggregator (§9) for every variant;
	// WithAggregator overrides individual entries.
	Aggregators map[format.LogicVariant]aggregate.Aggregator
}

func defaultConfig() Config {
	return Config{
		Aggregators: map[format.LogicVariant]aggregate.Aggregator{
			format.Two:  aggregate.TimestepBoundsOrDominates{},
			format.Four: aggregate.TimestepBoundsOrDominates{},
			format.Nine: aggregate.TimestepBoundsOrDominates{},
		},
	}
}

// WithAllocator uses alloc as the shared backing allocator instead of a
// private per-WaveformDB one.
func WithAllocator(alloc *paged.Allocator) options.Option[*Config] {
	return options.NoError(func(c *Config) { c.Allocator = alloc })
}

// WithAggregator overrides the Aggregator used to fold variant's signals'
// ImplicitForest nodes. The reference Max and TimestepBoundsOrDominates
// aggregators of §9 are both valid choices here; callers may also supply
// their own.
func WithAggregator(variant format.LogicVariant, agg aggregate.Aggregator) options.Option[*Config] {
	return options.NoError(func(c *Config) { c.Aggregators[variant] = agg })
}
