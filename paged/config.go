package paged

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/lachlansneff/ligeia/internal/options"
)

const (
	// defaultMmapThreshold is the minimum single-allocation size that
	// triggers mmap regardless of budget (§6).
	defaultMmapThreshold = 10 * 1024 * 1024

	// fallbackMemoryBudget is used when the host's total memory cannot be
	// detected (§9.1: a host-introspection miss must not fail construction).
	fallbackMemoryBudget = 512 * 1024 * 1024
)

// Config holds PagedAllocator's tunables (§6).
type Config struct {
	// MemoryBudget is the target byte ceiling beyond which new
	// allocations prefer mmap once cumulative allocation crosses half of
	// it.
	MemoryBudget uint64
	// MmapThreshold is the minimum single-allocation size that triggers
	// mmap regardless of budget.
	MmapThreshold uint64
}

func defaultConfig() Config {
	return Config{
		MemoryBudget:  detectMemoryBudget(),
		MmapThreshold: defaultMmapThreshold,
	}
}

// WithMemoryBudget overrides the auto-detected memory budget.
func WithMemoryBudget(n uint64) options.Option[*Config] {
	return options.NoError(func(c *Config) { c.MemoryBudget = n })
}

// WithMmapThreshold overrides the minimum single-allocation size that
// triggers mmap regardless of budget.
func WithMmapThreshold(n uint64) options.Option[*Config] {
	return options.NoError(func(c *Config) { c.MmapThreshold = n })
}

// detectMemoryBudget best-effort reads total system memory from
// /proc/meminfo. There is no portable stdlib API for this; when it cannot
// be read (non-Linux, sandboxed, etc.) it falls back to a fixed default
// rather than failing allocator construction.
func detectMemoryBudget() uint64 {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return fallbackMemoryBudget
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemTotal:") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}

		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			break
		}

		return kb * 1024
	}

	return fallbackMemoryBudget
}
