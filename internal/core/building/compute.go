// Package building contains the pure calculators and guards for building
// construction: duration and cost scaling, refunds, gift yields, and the
// preconditions for instantiating, improving, and cancelling.
package building

import (
	"math"
	"time"

	"github.com/example/garrison/internal/core/resource"
)

// Factors are the tunable scaling bases for construction math. Loaded
// from the catalog's tuning section.
type Factors struct {
	// Duration scales construction time exponentially per target level.
	Duration float64
	// Default scales gold and wood costs exponentially per target level.
	Default float64
	// Decreased scales plot costs exponentially per target level.
	Decreased float64
	// Gift scales one-time gift yields exponentially per target level.
	Gift float64
	// WorkforceDiscount is the multiplicative reduction applied to the
	// duration for every worker above the minimum.
	WorkforceDiscount float64
}

// DefaultFactors are the stock scaling bases.
var DefaultFactors = Factors{
	Duration:          1.3,
	Default:           1.3,
	Decreased:         1.1,
	Gift:              1.2,
	WorkforceDiscount: 0.97,
}

// MaxWorkforceMultiple caps committed workforce at this multiple of the
// static minimum; extra workers beyond the cap buy nothing.
const MaxWorkforceMultiple = 2

// ClampWorkforce bounds a workforce commitment to [min, 2*min].
func ClampWorkforce(workforce, minWorkforce int) int {
	if workforce < minWorkforce {
		return minWorkforce
	}
	if max := minWorkforce * MaxWorkforceMultiple; workforce > max {
		return max
	}
	return workforce
}

// Duration computes the construction time for a target level and a
// workforce commitment. Base duration scales exponentially in the level;
// each worker above the minimum applies the workforce discount once.
// Always computed from current static data, never cached.
func Duration(base time.Duration, level, workforce, minWorkforce int, f Factors) time.Duration {
	wf := ClampWorkforce(workforce, minWorkforce)
	scaled := float64(base) * math.Pow(f.Duration, float64(level))
	scaled *= math.Pow(f.WorkforceDiscount, float64(wf-minWorkforce))
	return time.Duration(scaled)
}

// ScaleCost computes the cost of reaching a target level from the static
// base cost: gold, wood, and food scale by the default factor, plot by
// the decreased factor, each floored. Level zero returns the base cost
// unchanged. Refunds on cancel use the same function so a cancelled
// construction returns exactly what it charged.
func ScaleCost(base resource.Amounts, level int, f Factors) resource.Amounts {
	if level == 0 {
		return base
	}
	def := math.Pow(f.Default, float64(level))
	dec := math.Pow(f.Decreased, float64(level))
	return resource.Amounts{
		Gold: int64(math.Floor(float64(base.Gold) * def)),
		Wood: int64(math.Floor(float64(base.Wood) * def)),
		Food: int64(math.Floor(float64(base.Food) * def)),
		Plot: int64(math.Floor(float64(base.Plot) * dec)),
	}
}

// GiftYield computes the one-time yield a gift building credits when its
// instantiation or improvement to the target level is scheduled.
func GiftYield(amount float64, level int, f Factors) int64 {
	return int64(math.Floor(amount * math.Pow(f.Gift, float64(level))))
}
