package unit

import (
	"fmt"

	"github.com/example/garrison/internal/core/guard"
	"github.com/example/garrison/internal/core/resource"
	"github.com/example/garrison/internal/fault"
)

// TrainContext provides the resolved state for training guards.
type TrainContext struct {
	Code      string
	Defined   bool
	Quantity  int
	Resources resource.Amounts
	Cost      resource.Amounts
}

// CanTrain evaluates whether a unit batch may be trained.
// Rules:
// - The code must exist in the catalog
// - Quantity must be positive
// - The ledger must cover the full batch cost (no partial commit)
func CanTrain(ctx TrainContext) guard.Result {
	if !ctx.Defined {
		return guard.Deny(fault.KindNotFound, fmt.Sprintf("unit %s is not defined", ctx.Code))
	}
	if ctx.Quantity < 1 {
		return guard.Deny(fault.KindInvalidArgument,
			fmt.Sprintf("quantity must be positive, got %d", ctx.Quantity))
	}
	if !ctx.Resources.CanAfford(ctx.Cost) {
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("insufficient resources to train %d %s", ctx.Quantity, ctx.Code))
	}
	return guard.Allow()
}

// AssignContext provides the resolved state for harvest assignment guards.
type AssignContext struct {
	BuildingID      string
	BuildingCode    string
	BuildingFound   bool
	HarvestCapable  bool
	GiftBuilding    bool
	Instantiated    bool
	Busy            bool
	UnitCode        string
	UnitOwned       bool
	Quantity        int
	IdleUnits       int
	AssignedWorkers int
	MaxWorkforce    int
}

// CanAssign evaluates whether units may be committed to harvest a building.
// Rules:
// - The building must exist, be harvest-capable, and not be a gift building
// - Its construction must be finished and nothing else running
// - Quantity must be positive and covered by idle units
// - The building's workforce ceiling must not be exceeded
func CanAssign(ctx AssignContext) guard.Result {
	if !ctx.BuildingFound {
		return guard.Deny(fault.KindNotFound, fmt.Sprintf("building %s not found", ctx.BuildingID))
	}
	if !ctx.HarvestCapable || ctx.GiftBuilding {
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("building %s does not take harvest workers", ctx.BuildingCode))
	}
	if !ctx.Instantiated {
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("building %s is not yet constructed", ctx.BuildingCode))
	}
	if ctx.Busy {
		return guard.Deny(fault.KindConflict,
			fmt.Sprintf("building %s has a construction in progress", ctx.BuildingCode))
	}
	if ctx.Quantity < 1 {
		return guard.Deny(fault.KindInvalidArgument,
			fmt.Sprintf("quantity must be positive, got %d", ctx.Quantity))
	}
	if !ctx.UnitOwned {
		return guard.Deny(fault.KindNotFound, fmt.Sprintf("unit %s not found", ctx.UnitCode))
	}
	if ctx.IdleUnits < ctx.Quantity {
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("not enough idle %s: need %d, have %d", ctx.UnitCode, ctx.Quantity, ctx.IdleUnits))
	}
	if ctx.AssignedWorkers+ctx.Quantity > ctx.MaxWorkforce {
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("building %s takes at most %d workers, %d already assigned",
				ctx.BuildingCode, ctx.MaxWorkforce, ctx.AssignedWorkers))
	}
	return guard.Allow()
}

// UnassignContext provides the resolved state for unassignment guards.
type UnassignContext struct {
	BuildingID    string
	BuildingFound bool
	UnitCode      string
	UnitOwned     bool
	Quantity      int
	Assigned      int
}

// CanUnassign evaluates whether harvest workers may be withdrawn.
// Rules:
// - The building and unit must exist
// - Quantity must be positive and not exceed the standing assignment
func CanUnassign(ctx UnassignContext) guard.Result {
	if !ctx.BuildingFound {
		return guard.Deny(fault.KindNotFound, fmt.Sprintf("building %s not found", ctx.BuildingID))
	}
	if !ctx.UnitOwned {
		return guard.Deny(fault.KindNotFound, fmt.Sprintf("unit %s not found", ctx.UnitCode))
	}
	if ctx.Quantity < 1 {
		return guard.Deny(fault.KindInvalidArgument,
			fmt.Sprintf("quantity must be positive, got %d", ctx.Quantity))
	}
	if ctx.Assigned == 0 {
		return guard.Deny(fault.KindNotFound,
			fmt.Sprintf("no %s assigned to building %s", ctx.UnitCode, ctx.BuildingID))
	}
	if ctx.Quantity > ctx.Assigned {
		return guard.Deny(fault.KindPreconditionFailed,
			fmt.Sprintf("only %d %s assigned, cannot withdraw %d", ctx.Assigned, ctx.UnitCode, ctx.Quantity))
	}
	return guard.Allow()
}
