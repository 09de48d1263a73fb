package app

import (
	"context"
	"time"

	"github.com/example/garrison/internal/core/building"
	"github.com/example/garrison/internal/core/garrison"
	"github.com/example/garrison/internal/core/requirement"
	"github.com/example/garrison/internal/core/resource"
	"github.com/example/garrison/internal/fault"
	"github.com/example/garrison/internal/ports/primary"
	"github.com/example/garrison/internal/ports/secondary"
)

// AddBuilding schedules the construction of a new building. Cost is
// debited from the freshly accrued ledger; the committed workforce is
// bound to the site until the construction's end date. Gift harvesters
// credit their one-time yield immediately.
func (s *GarrisonServiceImpl) AddBuilding(ctx context.Context, req primary.AddBuildingRequest) (*primary.Garrison, error) {
	return s.withGarrison(ctx, req.GarrisonID, func(g *garrison.Garrison, now time.Time) error {
		def, ok := s.catalog.Building(req.Code)
		factors := s.catalog.Tuning().Factors
		workerCode := s.catalog.WorkerUnit()

		guardCtx := building.InstantiateContext{
			Code:        req.Code,
			Defined:     ok,
			Workforce:   req.Workforce,
			IdleWorkers: idleCount(g, workerCode, now),
			WorkerCode:  workerCode,
			Resources:   g.Resources,
		}
		if ok {
			guardCtx.MinWorkforce = def.Instantiation.MinWorkforce
			guardCtx.Cost = def.Instantiation.Cost
		}
		if err := building.CanInstantiate(guardCtx).Error(); err != nil {
			return err
		}
		if err := requirement.Validate(def.Instantiation.Requirements, requirementState(g, now)).Error(); err != nil {
			return err
		}

		duration := building.Duration(def.Instantiation.Duration, 0, req.Workforce, def.Instantiation.MinWorkforce, factors)
		end := now.Add(duration)

		g.Resources.Debit(def.Instantiation.Cost)
		b := garrison.Building{
			ID:   s.newID(),
			Code: req.Code,
			Constructions: []garrison.Construction{{
				ID:        s.newID(),
				Begin:     now,
				End:       end,
				Workforce: req.Workforce,
			}},
		}
		g.Buildings = append(g.Buildings, b)

		if def.Gift() {
			g.Resources.Add(def.Harvest.Resource, building.GiftYield(def.Harvest.Amount, 0, factors))
		}
		if req.Workforce > 0 {
			s.commitWorkforce(g, workerCode, b.ID, req.Workforce, end)
		}
		return nil
	})
}

// UpgradeBuilding schedules the next upgrade level for a building.
func (s *GarrisonServiceImpl) UpgradeBuilding(ctx context.Context, req primary.ImproveBuildingRequest) (*primary.Garrison, error) {
	return s.improveBuilding(ctx, req, garrison.ImprovementUpgrade)
}

// ExtendBuilding schedules the next extension level for a building.
func (s *GarrisonServiceImpl) ExtendBuilding(ctx context.Context, req primary.ImproveBuildingRequest) (*primary.Garrison, error) {
	return s.improveBuilding(ctx, req, garrison.ImprovementExtension)
}

func (s *GarrisonServiceImpl) improveBuilding(ctx context.Context, req primary.ImproveBuildingRequest, kind garrison.ImprovementType) (*primary.Garrison, error) {
	return s.withGarrison(ctx, req.GarrisonID, func(g *garrison.Garrison, now time.Time) error {
		factors := s.catalog.Tuning().Factors
		workerCode := s.catalog.WorkerUnit()

		b := g.Building(req.BuildingID)
		guardCtx := building.ImproveContext{
			BuildingID:  req.BuildingID,
			Found:       b != nil,
			Improvement: kind,
			Workforce:   req.Workforce,
			IdleWorkers: idleCount(g, workerCode, now),
			WorkerCode:  workerCode,
			Resources:   g.Resources,
		}

		var def *secondary.BuildingDef
		var reqs []requirement.Requirement
		nextLevel := 0
		if b != nil {
			var ok bool
			def, ok = s.catalog.Building(b.Code)
			if !ok {
				return fault.NotFound("building %s is not defined", b.Code)
			}
			nextLevel = b.Level(kind, now) + 1

			guardCtx.Code = b.Code
			guardCtx.Instantiated = b.Instantiated(now)
			guardCtx.Busy = b.Busy(now)
			guardCtx.NextLevel = nextLevel
			guardCtx.MinWorkforce = def.Instantiation.MinWorkforce
			guardCtx.Cost = building.ScaleCost(def.Instantiation.Cost, nextLevel, factors)

			switch kind {
			case garrison.ImprovementUpgrade:
				guardCtx.MaxLevel = def.MaxUpgradeLevel()
				if up := def.Upgrade(nextLevel); up != nil {
					reqs = up.Requirements
				}
			case garrison.ImprovementExtension:
				if def.Extension != nil {
					guardCtx.MaxLevel = def.Extension.MaxLevel
					reqs = def.Extension.Requirements
				}
			}
		}

		if err := building.CanImprove(guardCtx).Error(); err != nil {
			return err
		}
		if err := requirement.Validate(reqs, requirementState(g, now)).Error(); err != nil {
			return err
		}

		duration := building.Duration(def.Instantiation.Duration, nextLevel, req.Workforce, def.Instantiation.MinWorkforce, factors)
		end := now.Add(duration)

		g.Resources.Debit(guardCtx.Cost)
		b.Constructions = append(b.Constructions, garrison.Construction{
			ID:          s.newID(),
			Begin:       now,
			End:         end,
			Workforce:   req.Workforce,
			Improvement: &garrison.Improvement{Type: kind, Level: nextLevel},
		})

		if def.Gift() {
			g.Resources.Add(def.Harvest.Resource, building.GiftYield(def.Harvest.Amount, nextLevel, factors))
		}
		if req.Workforce > 0 {
			s.commitWorkforce(g, workerCode, b.ID, req.Workforce, end)
		}
		return nil
	})
}

// CancelConstruction cancels a running construction. Cancelling the
// instantiation removes the whole building and refunds the full cost;
// cancelling an improvement refunds its scaled cost and keeps the
// previous level. Committed workforce is released by matching the
// construction's end date; a gift building's credited yield is taken
// back at the same scaled value.
func (s *GarrisonServiceImpl) CancelConstruction(ctx context.Context, req primary.CancelConstructionRequest) (*primary.Garrison, error) {
	return s.withGarrison(ctx, req.GarrisonID, func(g *garrison.Garrison, now time.Time) error {
		factors := s.catalog.Tuning().Factors

		b := g.Building(req.BuildingID)
		var c *garrison.Construction
		if b != nil {
			c = b.Construction(req.ConstructionID)
		}

		guardCtx := building.CancelContext{
			BuildingID:        req.BuildingID,
			ConstructionID:    req.ConstructionID,
			BuildingFound:     b != nil,
			ConstructionFound: c != nil,
			Resources:         g.Resources,
		}

		var def *secondary.BuildingDef
		var owedGift resource.Amounts
		level := 0
		if c != nil {
			var ok bool
			def, ok = s.catalog.Building(b.Code)
			if !ok {
				return fault.NotFound("building %s is not defined", b.Code)
			}
			if c.Improvement != nil {
				level = c.Improvement.Level
			}
			if def.Gift() {
				owedGift.Add(def.Harvest.Resource, building.GiftYield(def.Harvest.Amount, level, factors))
			}
			guardCtx.Finished = c.Finished(now)
			guardCtx.OwedGift = owedGift
		}

		if err := building.CanCancel(guardCtx).Error(); err != nil {
			return err
		}

		refund := building.ScaleCost(def.Instantiation.Cost, level, factors)
		end := c.End

		g.Resources.Credit(refund)
		g.Resources.Debit(owedGift)

		if c.Improvement == nil {
			// Instantiation: the building never existed as far as the
			// garrison is concerned. Dropping it also drops every
			// assignment pointing at it.
			g.RemoveBuilding(b.ID)
		} else {
			b.RemoveConstruction(c.ID)
			g.ReleaseConstructionWorkforce(b.ID, end)
		}
		s.clearOrphanClocks(g)
		return nil
	})
}

// commitWorkforce binds workers to a construction site until its end date.
func (s *GarrisonServiceImpl) commitWorkforce(g *garrison.Garrison, workerCode, buildingID string, quantity int, end time.Time) {
	u := g.EnsureUnit(workerCode)
	u.Assignments = append(u.Assignments, garrison.Assignment{
		ID:         s.newID(),
		BuildingID: buildingID,
		Quantity:   quantity,
		Type:       garrison.AssignmentConstruction,
		End:        end,
	})
}

// idleCount returns the idle availability of a cohort, zero when the
// garrison owns none.
func idleCount(g *garrison.Garrison, code string, now time.Time) int {
	u := g.Unit(code)
	if u == nil {
		return 0
	}
	return u.Idle(now)
}
