package building

import (
	"fmt"

	"github.com/example/garrison/internal/core/garrison"
	"github.com/example/garrison/internal/core/guard"
	"github.com/example/garrison/internal/core/resource"
	"github.com/example/garrison/internal/fault"
)

// InstantiateContext provides the resolved state for instantiation guards.
type InstantiateContext struct {
	Code         string
	Defined      bool
	Workforce    int
	MinWorkforce int
	IdleWorkers  int
	WorkerCode   string
	Resources    resource.Amounts
	Cost         resource.Amounts
}

// CanInstantiate evaluates whether a new building may be constructed.
// Rules:
// - The code must exist in the catalog
// - Workforce must lie within [min, 2*min]
// - Enough idle workers must be available
// - The ledger must cover the full cost
func CanInstantiate(ctx InstantiateContext) guard.Result {
	if !ctx.Defined {
		return guard.Deny(fault.KindNotFound, fmt.Sprintf("building %s is not defined", ctx.Code))
	}
	if r := workforceBounds(ctx.Workforce, ctx.MinWorkforce); !r.Allowed {
		return r
	}
	if ctx.IdleWorkers < ctx.Workforce {
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("not enough idle %s: need %d, have %d", ctx.WorkerCode, ctx.Workforce, ctx.IdleWorkers))
	}
	return affordable(ctx.Resources, ctx.Cost)
}

// ImproveContext provides the resolved state for upgrade/extension guards.
type ImproveContext struct {
	BuildingID   string
	Code         string
	Found        bool
	Instantiated bool
	Busy         bool
	Improvement  garrison.ImprovementType
	NextLevel    int
	MaxLevel     int
	Workforce    int
	MinWorkforce int
	IdleWorkers  int
	WorkerCode   string
	Resources    resource.Amounts
	Cost         resource.Amounts
}

// CanImprove evaluates whether a building may be upgraded or extended.
// Rules:
// - The building must exist and its instantiation must be finished
// - The building must be idle (no running construction)
// - The target level must be defined by the catalog
// - Workforce bounds, idle availability, and cost as for instantiation
func CanImprove(ctx ImproveContext) guard.Result {
	if !ctx.Found {
		return guard.Deny(fault.KindNotFound, fmt.Sprintf("building %s not found", ctx.BuildingID))
	}
	if !ctx.Instantiated {
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("building %s is not yet constructed", ctx.Code))
	}
	if ctx.Busy {
		return guard.Deny(fault.KindConflict,
			fmt.Sprintf("building %s already has a construction in progress", ctx.Code))
	}
	if ctx.NextLevel > ctx.MaxLevel {
		if ctx.Improvement == garrison.ImprovementExtension {
			return guard.Deny(fault.KindPreconditionFailed,
				fmt.Sprintf("building %s cannot be extended past level %d", ctx.Code, ctx.MaxLevel))
		}
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("building %s has no upgrade defined beyond level %d", ctx.Code, ctx.MaxLevel))
	}
	if r := workforceBounds(ctx.Workforce, ctx.MinWorkforce); !r.Allowed {
		return r
	}
	if ctx.IdleWorkers < ctx.Workforce {
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("not enough idle %s: need %d, have %d", ctx.WorkerCode, ctx.Workforce, ctx.IdleWorkers))
	}
	return affordable(ctx.Resources, ctx.Cost)
}

// CancelContext provides the resolved state for cancellation guards.
type CancelContext struct {
	BuildingID        string
	ConstructionID    string
	BuildingFound     bool
	ConstructionFound bool
	Finished          bool
	Resources         resource.Amounts
	OwedGift          resource.Amounts
}

// CanCancel evaluates whether a construction may be cancelled.
// Rules:
// - Building and construction must exist
// - A finished construction is historical record and cannot be cancelled
// - Any owed gift yield must be returnable without going negative
func CanCancel(ctx CancelContext) guard.Result {
	if !ctx.BuildingFound {
		return guard.Deny(fault.KindNotFound, fmt.Sprintf("building %s not found", ctx.BuildingID))
	}
	if !ctx.ConstructionFound {
		return guard.Deny(fault.KindNotFound, fmt.Sprintf("construction %s not found", ctx.ConstructionID))
	}
	if ctx.Finished {
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("construction %s is already complete", ctx.ConstructionID))
	}
	if !ctx.Resources.CanAfford(ctx.OwedGift) {
		return guard.Deny(fault.KindPreconditionFailed,
			"resources already spent: cannot return the credited yield")
	}
	return guard.Allow()
}

func workforceBounds(workforce, minWorkforce int) guard.Result {
	if workforce < minWorkforce {
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("workforce %d is below the minimum of %d", workforce, minWorkforce))
	}
	if max := minWorkforce * MaxWorkforceMultiple; workforce > max {
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("workforce %d exceeds the maximum of %d", workforce, max))
	}
	return guard.Allow()
}

func affordable(have, cost resource.Amounts) guard.Result {
	if !have.CanAfford(cost) {
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("insufficient resources: need %d gold, %d wood, %d food, %d plot",
				cost.Gold, cost.Wood, cost.Food, cost.Plot))
	}
	return guard.Allow()
}
