package respool

import "runtime"

// DefaultIOLimit is the per-key I/O concurrency used when a key has no
// configured override and Config.DefaultIOLimit is zero.
const DefaultIOLimit = 2

// Config supplies the admission limits at construction time. Values come
// from the embedding application; nothing is read from the environment or
// persisted anywhere.
//
// The zero value is usable: the pool size defaults to runtime.GOMAXPROCS(0)
// and the per-key I/O limit to DefaultIOLimit.
type Config struct {
	// CPUPoolSize is the number of workers in the CPU pool.
	// Zero means runtime.GOMAXPROCS(0); negative is rejected.
	CPUPoolSize int

	// DefaultIOLimit bounds concurrent I/O tasks for keys without an entry
	// in IOLimits. Zero means DefaultIOLimit; negative is rejected.
	DefaultIOLimit int

	// IOLimits overrides the concurrency limit for specific resource keys.
	// Entries must be positive. Keys first seen at submission time fall
	// back to DefaultIOLimit.
	IOLimits map[string]int
}

// DefaultConfig returns the configuration used for zero Config fields.
func DefaultConfig() Config {
	return Config{
		CPUPoolSize:    runtime.GOMAXPROCS(0),
		DefaultIOLimit: DefaultIOLimit,
	}
}

// normalize validates cfg, fills zero fields with defaults and copies the
// limits map so later mutation of the caller's map has no effect.
func (c Config) normalize() (Config, error) {
	if c.CPUPoolSize < 0 {
		return Config{}, &ErrInvalidConfig{Field: "CPUPoolSize", Value: c.CPUPoolSize}
	}
	if c.DefaultIOLimit < 0 {
		return Config{}, &ErrInvalidConfig{Field: "DefaultIOLimit", Value: c.DefaultIOLimit}
	}

	out := c
	out.IOLimits = make(map[string]int, len(c.IOLimits))
	for key, limit := range c.IOLimits {
		if limit <= 0 {
			return Config{}, &ErrInvalidConfig{Field: "IOLimits[" + key + "]", Value: limit}
		}
		out.IOLimits[key] = limit
	}

	if out.CPUPoolSize == 0 {
		out.CPUPoolSize = runtime.GOMAXPROCS(0)
	}
	if out.DefaultIOLimit == 0 {
		out.DefaultIOLimit = DefaultIOLimit
	}
	return out, nil
}
