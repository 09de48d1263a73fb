// Package resource models the garrison ledger: the finite set of resource
// kinds, integer amounts per kind, and the per-kind harvest clocks that
// anchor time-based accrual.
package resource

import "time"

// Kind identifies one resource in the ledger.
type Kind string

const (
	Gold Kind = "gold"
	Wood Kind = "wood"
	Food Kind = "food"
	Plot Kind = "plot"
)

// Kinds returns every resource kind in a stable order.
func Kinds() []Kind {
	return []Kind{Gold, Wood, Food, Plot}
}

// Valid reports whether k names a known resource kind.
func (k Kind) Valid() bool {
	switch k {
	case Gold, Wood, Food, Plot:
		return true
	}
	return false
}

// Harvestable reports whether k can be produced by harvest buildings.
// Plot is territory, not produce.
func (k Kind) Harvestable() bool {
	return k == Gold || k == Wood || k == Food
}

// Amounts holds one quantity per resource kind. It serves both as the
// garrison ledger and as operation costs. Quantities in a ledger never
// go negative; Debit callers must check CanAfford first.
type Amounts struct {
	Gold int64
	Wood int64
	Food int64
	Plot int64
}

// Get returns the quantity for a kind.
func (a Amounts) Get(k Kind) int64 {
	switch k {
	case Gold:
		return a.Gold
	case Wood:
		return a.Wood
	case Food:
		return a.Food
	case Plot:
		return a.Plot
	}
	return 0
}

// Add adds n (which may be negative) to the quantity for a kind.
func (a *Amounts) Add(k Kind, n int64) {
	switch k {
	case Gold:
		a.Gold += n
	case Wood:
		a.Wood += n
	case Food:
		a.Food += n
	case Plot:
		a.Plot += n
	}
}

// CanAfford reports whether every kind in a covers the cost.
func (a Amounts) CanAfford(cost Amounts) bool {
	return a.Gold >= cost.Gold &&
		a.Wood >= cost.Wood &&
		a.Food >= cost.Food &&
		a.Plot >= cost.Plot
}

// Debit subtracts cost from a. Callers must have verified CanAfford.
func (a *Amounts) Debit(cost Amounts) {
	a.Gold -= cost.Gold
	a.Wood -= cost.Wood
	a.Food -= cost.Food
	a.Plot -= cost.Plot
}

// Credit adds cost to a.
func (a *Amounts) Credit(cost Amounts) {
	a.Gold += cost.Gold
	a.Wood += cost.Wood
	a.Food += cost.Food
	a.Plot += cost.Plot
}

// Scale returns a with every quantity multiplied by n.
func (a Amounts) Scale(n int64) Amounts {
	return Amounts{
		Gold: a.Gold * n,
		Wood: a.Wood * n,
		Food: a.Food * n,
		Plot: a.Plot * n,
	}
}

// IsZero reports whether every quantity is zero.
func (a Amounts) IsZero() bool {
	return a == Amounts{}
}

// Clocks holds the optional last-accrual timestamp per harvestable kind.
// A clock exists if and only if at least one unit is currently assigned
// to harvest that kind somewhere in the garrison.
type Clocks struct {
	Gold *time.Time
	Wood *time.Time
	Food *time.Time
}

// Get returns the clock for a kind, or nil if unset or not harvestable.
func (c *Clocks) Get(k Kind) *time.Time {
	switch k {
	case Gold:
		return c.Gold
	case Wood:
		return c.Wood
	case Food:
		return c.Food
	}
	return nil
}

// Set stamps the clock for a kind. Non-harvestable kinds are ignored.
func (c *Clocks) Set(k Kind, t time.Time) {
	switch k {
	case Gold:
		c.Gold = &t
	case Wood:
		c.Wood = &t
	case Food:
		c.Food = &t
	}
}

// Clear removes the clock for a kind.
func (c *Clocks) Clear(k Kind) {
	switch k {
	case Gold:
		c.Gold = nil
	case Wood:
		c.Wood = nil
	case Food:
		c.Food = nil
	}
}
