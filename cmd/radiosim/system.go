package main

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/rs/zerolog"

	"github.com/trunkradio/radiosim/internal/alloc"
	"github.com/trunkradio/radiosim/internal/model"
	"github.com/trunkradio/radiosim/internal/rf"
	"github.com/trunkradio/radiosim/internal/simconfig"
	"github.com/trunkradio/radiosim/internal/zone"
)

// chaRand adapts a math/rand/v2 *rand.Rand to the alloc.Rand and rf.Rand
// interfaces, seeded per-process so scenario runs are reproducible when
// RANDOM_SEED is set.
type chaRand struct {
	*rand.Rand
}

func (r chaRand) IntN(n int) int   { return r.Rand.IntN(n) }
func (r chaRand) Float64() float64 { return r.Rand.Float64() }

func newRand(seed int64) chaRand {
	if seed == 0 {
		return chaRand{rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return chaRand{rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))}
}

// buildSystem loads the domain configuration and constructs one
// zone.Controller per zone, returning a registry ready to drive.
func buildSystem(configPath string, seed int64, log zerolog.Logger) (*model.SystemConfig, *zone.Registry, error) {
	sysConfig, err := simconfig.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load system config: %w", err)
	}

	rnd := newRand(seed)
	allocator := alloc.New(rnd, nil, log)
	scanner := rf.New(rnd)

	zoneIDs := make([]int, 0, len(sysConfig.WACN.Zones))
	for id := range sysConfig.WACN.Zones {
		zoneIDs = append(zoneIDs, id)
	}
	sort.Ints(zoneIDs)

	controllers := make(map[int]*zone.Controller, len(zoneIDs))
	for _, id := range zoneIDs {
		c, err := zone.New(id, sysConfig.WACN, allocator, scanner, rnd, log)
		if err != nil {
			return nil, nil, fmt.Errorf("construct zone %d controller: %w", id, err)
		}
		c.InitializeSystem()
		controllers[id] = c
	}

	return sysConfig, zone.NewRegistry(controllers), nil
}
