package settlement

import (
	"sync"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/paycash/pcash-contract/asset"
)

type (
	// Pool is a liquidity pool quoted by the external exchange.
	Pool struct {
		Token1 asset.ExtendedAmount
		Token2 asset.ExtendedAmount
	}

	// PriceSource provides pools by pair key.
	PriceSource interface {
		Pool(key util.Uint256) (Pool, bool)
	}

	// MemoryPools is a PriceSource backed by a map. It is safe for
	// concurrent use.
	MemoryPools struct {
		mtx   sync.RWMutex
		pools map[util.Uint256]Pool
	}
)

// Key returns the pair key the pool is stored by.
func (p Pool) Key() util.Uint256 {
	return asset.PairKey(p.Token1.Extended(), p.Token2.Extended())
}

// NewMemoryPools returns price source with the given pools.
func NewMemoryPools(pools ...Pool) *MemoryPools {
	m := &MemoryPools{pools: make(map[util.Uint256]Pool, len(pools))}
	for i := range pools {
		m.Set(pools[i])
	}
	return m
}

// Set adds the pool or replaces its reserves.
func (m *MemoryPools) Set(p Pool) {
	m.mtx.Lock()
	m.pools[p.Key()] = p
	m.mtx.Unlock()
}

// Pool implements PriceSource.
func (m *MemoryPools) Pool(key util.Uint256) (Pool, bool) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	p, ok := m.pools[key]
	return p, ok
}

// findPool probes both orders of the pair.
func findPool(src PriceSource, a, b asset.Extended) (Pool, bool) {
	if p, ok := src.Pool(asset.PairKey(a, b)); ok {
		return p, true
	}
	return src.Pool(asset.PairKey(b, a))
}
