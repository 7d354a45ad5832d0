package bloom

import (
	"context"
	_ "embed"
	"errors"

	"demoengine/internal/pkg/hash"
	"demoengine/internal/pkg/redis"
)

var (
	// ErrTooLargeOffset indicates the offset is outside the bit set.
	ErrTooLargeOffset = errors.New("too large offset")

	//go:embed set_script.lua
	setLuaScript string
	setScript    = redis.NewScript(setLuaScript)

	//go:embed get_script.lua
	getLuaScript string
	getScript    = redis.NewScript(getLuaScript)
)

// Filter is a Redis-backed Bloom filter used as a cheap pre-filter in front of
// the blocked-term automaton. False positives are acceptable: the automaton is
// authoritative.
type Filter struct {
	bitSet         bitSetProvider
	bits           uint
	kHashFunctions uint
}

// New creates a Bloom filter over the given Redis key.
func New(store redis.Cache, key string, bits uint, kHashFunctions uint) *Filter {
	return &Filter{
		bits:           bits,
		bitSet:         newRedisBitSet(store, key, bits),
		kHashFunctions: kHashFunctions,
	}
}

func (f *Filter) locations(data []byte) []uint {
	locations := make([]uint, f.kHashFunctions)
	for i := uint(0); i < f.kHashFunctions; i++ {
		hashVal := hash.Sum64(append(data, byte(i)))
		locations[i] = uint(hashVal % uint64(f.bits))
	}
	return locations
}

// Add records data in the filter.
func (f *Filter) Add(ctx context.Context, data []byte) error {
	return f.bitSet.set(ctx, f.locations(data))
}

// Exists reports whether data may be present.
func (f *Filter) Exists(ctx context.Context, data []byte) (bool, error) {
	isSet, err := f.bitSet.check(ctx, f.locations(data))
	if err != nil {
		return false, err
	}
	return isSet, nil
}

// Reset drops the whole bit set. Callers repopulate it on the next rebuild.
func (f *Filter) Reset(ctx context.Context) error {
	return f.bitSet.del(ctx)
}
