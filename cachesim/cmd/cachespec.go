package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/cachesim/cache"
)

// A cache spec configures one simulated cache on the command line, as
// colon-separated fields:
//
//	name:byteSize:lineSize:associativity[:strategy[:allocation]]
//
// Sizes accept KB/MB/GB suffixes. The strategy is "lru" or "direct";
// the allocation policy is "allocate" or "no-allocate".
func parseCacheSpec(spec string) (name string, b cache.Builder, err error) {
	fields := strings.Split(spec, ":")
	if len(fields) < 4 || len(fields) > 6 {
		return "", b, fmt.Errorf(
			"cache spec %q needs name:size:line:assoc[:strategy[:alloc]]",
			spec)
	}

	name = fields[0]
	if name == "" {
		return "", b, fmt.Errorf("cache spec %q has an empty name", spec)
	}

	byteSize, err := parseByteSize(fields[1])
	if err != nil {
		return "", b, fmt.Errorf("cache spec %q: %w", spec, err)
	}

	lineSize, err := parseByteSize(fields[2])
	if err != nil {
		return "", b, fmt.Errorf("cache spec %q: %w", spec, err)
	}

	associativity, err := strconv.Atoi(fields[3])
	if err != nil {
		return "", b, fmt.Errorf(
			"cache spec %q: bad associativity %q", spec, fields[3])
	}

	b = cache.MakeBuilder().
		WithByteSize(byteSize).
		WithLineSize(lineSize).
		WithWayAssociativity(associativity)

	if len(fields) >= 5 {
		b = b.WithReplacementStrategy(fields[4])
	}

	if len(fields) == 6 {
		policy, err := parseAllocationPolicy(fields[5])
		if err != nil {
			return "", b, fmt.Errorf("cache spec %q: %w", spec, err)
		}

		b = b.WithAllocationPolicy(policy)
	}

	return name, b, nil
}

func parseByteSize(s string) (uint64, error) {
	multiplier := uint64(1)
	number := s

	switch {
	case strings.HasSuffix(s, "KB"):
		multiplier = cache.KB
		number = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "MB"):
		multiplier = cache.MB
		number = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "GB"):
		multiplier = cache.GB
		number = strings.TrimSuffix(s, "GB")
	}

	n, err := strconv.ParseUint(number, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad size %q", s)
	}

	return n * multiplier, nil
}

func parseAllocationPolicy(s string) (cache.AllocationPolicy, error) {
	switch s {
	case "allocate":
		return cache.StoreAllocate, nil
	case "no-allocate":
		return cache.StoreNoAllocate, nil
	default:
		return 0, fmt.Errorf("unknown allocation policy %q", s)
	}
}
