package app

import (
	"context"
	"time"

	"github.com/example/garrison/internal/core/garrison"
	"github.com/example/garrison/internal/core/requirement"
	"github.com/example/garrison/internal/core/unit"
	"github.com/example/garrison/internal/fault"
	"github.com/example/garrison/internal/ports/primary"
)

// AddUnit trains a batch of units. The full batch cost is debited up
// front; the cohort quantity grows immediately and each unit is held
// busy by a training slot whose end date is chained off the previous
// slot, so a batch of N at D each finishes at now+N*D.
func (s *GarrisonServiceImpl) AddUnit(ctx context.Context, req primary.AddUnitRequest) (*primary.Garrison, error) {
	return s.withGarrison(ctx, req.GarrisonID, func(g *garrison.Garrison, now time.Time) error {
		def, ok := s.catalog.Unit(req.Code)

		guardCtx := unit.TrainContext{
			Code:      req.Code,
			Defined:   ok,
			Quantity:  req.Quantity,
			Resources: g.Resources,
		}
		if ok {
			guardCtx.Cost = def.Cost.Scale(int64(req.Quantity))
		}
		if err := unit.CanTrain(guardCtx).Error(); err != nil {
			return err
		}
		if err := requirement.Validate(def.Requirements, requirementState(g, now)).Error(); err != nil {
			return err
		}

		g.Resources.Debit(guardCtx.Cost)
		u := g.EnsureUnit(req.Code)
		u.Quantity += req.Quantity
		for _, end := range unit.TrainingChain(now, req.Quantity, def.Duration) {
			u.Assignments = append(u.Assignments, garrison.Assignment{
				ID:       s.newID(),
				Quantity: 1,
				Type:     garrison.AssignmentInstantiation,
				End:      end,
			})
		}
		return nil
	})
}

// AssignUnit commits idle units to harvest at a building. The standing
// assignment carries the far-future sentinel end date and persists until
// explicitly withdrawn. The first worker on a resource kind starts that
// kind's harvest clock.
func (s *GarrisonServiceImpl) AssignUnit(ctx context.Context, req primary.AssignUnitRequest) (*primary.Garrison, error) {
	return s.withGarrison(ctx, req.GarrisonID, func(g *garrison.Garrison, now time.Time) error {
		b := g.Building(req.BuildingID)
		u := g.Unit(req.Code)

		guardCtx := unit.AssignContext{
			BuildingID:    req.BuildingID,
			BuildingFound: b != nil,
			UnitCode:      req.Code,
			UnitOwned:     u != nil,
			Quantity:      req.Quantity,
		}
		if b != nil {
			def, ok := s.catalog.Building(b.Code)
			if !ok {
				return fault.NotFound("building %s is not defined", b.Code)
			}
			guardCtx.BuildingCode = b.Code
			guardCtx.HarvestCapable = def.Harvest != nil
			guardCtx.GiftBuilding = def.Gift()
			guardCtx.Instantiated = b.Instantiated(now)
			guardCtx.Busy = b.Busy(now)
			guardCtx.AssignedWorkers = g.HarvestWorkforce(b.ID)
			if def.Harvest != nil {
				guardCtx.MaxWorkforce = def.Harvest.MaxWorkforce
			}
		}
		if u != nil {
			guardCtx.IdleUnits = u.Idle(now)
		}
		if err := unit.CanAssign(guardCtx).Error(); err != nil {
			return err
		}

		def, _ := s.catalog.Building(b.Code)
		if existing := harvestAssignment(u, b.ID); existing != nil {
			existing.Quantity += req.Quantity
		} else {
			u.Assignments = append(u.Assignments, garrison.Assignment{
				ID:         s.newID(),
				BuildingID: b.ID,
				Quantity:   req.Quantity,
				Type:       garrison.AssignmentHarvest,
				End:        garrison.HarvestHorizon,
			})
		}
		if g.Clocks.Get(def.Harvest.Resource) == nil {
			g.Clocks.Set(def.Harvest.Resource, now)
		}
		return nil
	})
}

// UnassignUnit withdraws harvest workers from a building. Withdrawing
// the last worker on a resource kind clears that kind's harvest clock;
// the accrual that ran at the start of this operation already credited
// everything earned up to now.
func (s *GarrisonServiceImpl) UnassignUnit(ctx context.Context, req primary.AssignUnitRequest) (*primary.Garrison, error) {
	return s.withGarrison(ctx, req.GarrisonID, func(g *garrison.Garrison, now time.Time) error {
		b := g.Building(req.BuildingID)
		u := g.Unit(req.Code)

		guardCtx := unit.UnassignContext{
			BuildingID:    req.BuildingID,
			BuildingFound: b != nil,
			UnitCode:      req.Code,
			UnitOwned:     u != nil,
			Quantity:      req.Quantity,
		}
		var existing *garrison.Assignment
		if u != nil && b != nil {
			existing = harvestAssignment(u, b.ID)
			if existing != nil {
				guardCtx.Assigned = existing.Quantity
			}
		}
		if err := unit.CanUnassign(guardCtx).Error(); err != nil {
			return err
		}

		existing.Quantity -= req.Quantity
		if existing.Quantity == 0 {
			removeAssignment(u, existing.ID)
		}
		s.clearOrphanClocks(g)
		return nil
	})
}

// harvestAssignment returns the cohort's standing harvest assignment for
// a building, or nil.
func harvestAssignment(u *garrison.Unit, buildingID string) *garrison.Assignment {
	for i := range u.Assignments {
		a := &u.Assignments[i]
		if a.Type == garrison.AssignmentHarvest && a.BuildingID == buildingID {
			return a
		}
	}
	return nil
}

func removeAssignment(u *garrison.Unit, id string) {
	for i := range u.Assignments {
		if u.Assignments[i].ID == id {
			u.Assignments = append(u.Assignments[:i], u.Assignments[i+1:]...)
			return
		}
	}
}
