package garrison

import (
	"math"
	"time"

	"github.com/example/garrison/internal/core/resource"
)

// HarvestSource describes a building code's harvest capability as resolved
// from the static catalog. MaxWorkforce zero marks a gift building whose
// yield is credited once at construction start, never accrued over time.
type HarvestSource struct {
	Resource        resource.Kind
	PerWorkerMinute float64
	MaxWorkforce    int
}

// Accrue brings the ledger up to date with wall-clock time. For every
// harvestable kind with an existing clock, elapsed minutes are sampled
// once against that clock, each eligible building's gain is floored and
// summed, and the clock is reset only when at least one building actually
// accrued. Calling twice in the same instant is a no-op.
//
// Eligible means: a worked harvest building (MaxWorkforce > 0) that is
// not busy with a construction and has at least one harvest worker.
//
// Returns the gained amount for every kind whose clock advanced; an
// empty map means the ledger did not change.
func Accrue(g *Garrison, sources map[string]HarvestSource, now time.Time) map[resource.Kind]int64 {
	gains := make(map[resource.Kind]int64)

	for _, kind := range resource.Kinds() {
		if !kind.Harvestable() {
			continue
		}
		last := g.Clocks.Get(kind)
		if last == nil {
			continue
		}
		elapsed := now.Sub(*last).Minutes()
		if elapsed <= 0 {
			continue
		}

		var gained int64
		active := false
		for _, b := range g.Buildings {
			src, ok := sources[b.Code]
			if !ok || src.Resource != kind || src.MaxWorkforce == 0 {
				continue
			}
			if b.Busy(now) {
				continue
			}
			workers := g.HarvestWorkforce(b.ID)
			if workers == 0 {
				continue
			}
			active = true
			gained += int64(math.Floor(src.PerWorkerMinute * elapsed * float64(workers)))
		}

		if !active {
			continue
		}
		g.Resources.Add(kind, gained)
		g.Clocks.Set(kind, now)
		gains[kind] = gained
	}

	return gains
}
