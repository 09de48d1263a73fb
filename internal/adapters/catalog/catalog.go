// Package catalog loads the static game data (buildings, units, zones,
// tuning) from YAML and serves it through the secondary Catalog port.
// Definitions are validated once at load time and immutable afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/garrison/internal/core/building"
	"github.com/example/garrison/internal/core/requirement"
	"github.com/example/garrison/internal/core/resource"
	"github.com/example/garrison/internal/ports/secondary"
)

//go:embed default.yaml
var defaultYAML []byte

// Ensure Catalog implements the interface
var _ secondary.Catalog = (*Catalog)(nil)

// Catalog is the loaded, validated game data.
type Catalog struct {
	buildings map[string]*secondary.BuildingDef
	units     map[string]*secondary.UnitDef
	zones     map[string]*secondary.ZoneDef
	worker    string
	tuning    secondary.Tuning
	order     []string
	unitOrder []string
}

type document struct {
	WorkerUnit        string            `yaml:"worker_unit"`
	Factors           factorsDoc        `yaml:"factors"`
	StartingResources map[string]int64  `yaml:"starting_resources"`
	StarterUnits      []starterUnitDoc  `yaml:"starter_units"`
	Buildings         []buildingDoc     `yaml:"buildings"`
	Units             []unitDoc         `yaml:"units"`
	Zones             []zoneDoc         `yaml:"zones"`
}

type factorsDoc struct {
	Duration          float64 `yaml:"duration"`
	Default           float64 `yaml:"default"`
	Decreased         float64 `yaml:"decreased"`
	Gift              float64 `yaml:"gift"`
	WorkforceDiscount float64 `yaml:"workforce_discount"`
}

type starterUnitDoc struct {
	Code     string `yaml:"code"`
	Quantity int    `yaml:"quantity"`
}

type buildingDoc struct {
	Code          string           `yaml:"code"`
	Name          string           `yaml:"name"`
	Cost          map[string]int64 `yaml:"cost"`
	DurationS     int              `yaml:"duration_s"`
	MinWorkforce  int              `yaml:"min_workforce"`
	Requirements  []requirementDoc `yaml:"requirements"`
	Upgrades      []upgradeDoc     `yaml:"upgrades"`
	Extension     *extensionDoc    `yaml:"extension"`
	Harvest       *harvestDoc      `yaml:"harvest"`
}

type upgradeDoc struct {
	Level        int              `yaml:"level"`
	Requirements []requirementDoc `yaml:"requirements"`
}

type extensionDoc struct {
	MaxLevel     int              `yaml:"max_level"`
	Requirements []requirementDoc `yaml:"requirements"`
}

type harvestDoc struct {
	Resource     string  `yaml:"resource"`
	Amount       float64 `yaml:"amount"`
	MaxWorkforce int     `yaml:"max_workforce"`
}

type requirementDoc struct {
	Building     string `yaml:"building"`
	UpgradeLevel int    `yaml:"upgrade_level"`
}

type unitDoc struct {
	Code         string           `yaml:"code"`
	Name         string           `yaml:"name"`
	Cost         map[string]int64 `yaml:"cost"`
	DurationS    int              `yaml:"duration_s"`
	Requirements []requirementDoc `yaml:"requirements"`
}

type zoneDoc struct {
	Code    string `yaml:"code"`
	Name    string `yaml:"name"`
	Faction string `yaml:"faction"`
}

// Load reads and validates a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Default returns the catalog bundled with the binary.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		// the embedded catalog is validated by tests
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Parse builds and validates a catalog from raw YAML.
func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog yaml: %w", err)
	}

	c := &Catalog{
		buildings: make(map[string]*secondary.BuildingDef),
		units:     make(map[string]*secondary.UnitDef),
		zones:     make(map[string]*secondary.ZoneDef),
		worker:    doc.WorkerUnit,
	}

	factors := building.Factors{
		Duration:          doc.Factors.Duration,
		Default:           doc.Factors.Default,
		Decreased:         doc.Factors.Decreased,
		Gift:              doc.Factors.Gift,
		WorkforceDiscount: doc.Factors.WorkforceDiscount,
	}
	if factors == (building.Factors{}) {
		factors = building.DefaultFactors
	}

	starting, err := amounts(doc.StartingResources)
	if err != nil {
		return nil, fmt.Errorf("starting_resources: %w", err)
	}
	c.tuning = secondary.Tuning{
		Factors:           factors,
		StartingResources: starting,
	}
	for _, s := range doc.StarterUnits {
		c.tuning.StarterUnits = append(c.tuning.StarterUnits,
			secondary.StarterUnit{Code: s.Code, Quantity: s.Quantity})
	}

	for _, b := range doc.Buildings {
		def, err := buildBuilding(b)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", b.Code, err)
		}
		if _, dup := c.buildings[b.Code]; dup {
			return nil, fmt.Errorf("building %s: duplicate code", b.Code)
		}
		c.buildings[b.Code] = def
		c.order = append(c.order, b.Code)
	}

	for _, u := range doc.Units {
		cost, err := amounts(u.Cost)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", u.Code, err)
		}
		if _, dup := c.units[u.Code]; dup {
			return nil, fmt.Errorf("unit %s: duplicate code", u.Code)
		}
		c.units[u.Code] = &secondary.UnitDef{
			Code:         u.Code,
			Name:         u.Name,
			Cost:         cost,
			Duration:     time.Duration(u.DurationS) * time.Second,
			Requirements: requirements(u.Requirements),
		}
		c.unitOrder = append(c.unitOrder, u.Code)
	}

	for _, z := range doc.Zones {
		if _, dup := c.zones[z.Code]; dup {
			return nil, fmt.Errorf("zone %s: duplicate code", z.Code)
		}
		c.zones[z.Code] = &secondary.ZoneDef{Code: z.Code, Name: z.Name, Faction: z.Faction}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func buildBuilding(b buildingDoc) (*secondary.BuildingDef, error) {
	cost, err := amounts(b.Cost)
	if err != nil {
		return nil, err
	}
	def := &secondary.BuildingDef{
		Code: b.Code,
		Name: b.Name,
		Instantiation: secondary.InstantiationDef{
			Cost:         cost,
			Duration:     time.Duration(b.DurationS) * time.Second,
			MinWorkforce: b.MinWorkforce,
			Requirements: requirements(b.Requirements),
		},
	}
	for _, u := range b.Upgrades {
		def.Upgrades = append(def.Upgrades, secondary.UpgradeDef{
			Level:        u.Level,
			Requirements: requirements(u.Requirements),
		})
	}
	if b.Extension != nil {
		def.Extension = &secondary.ExtensionDef{
			MaxLevel:     b.Extension.MaxLevel,
			Requirements: requirements(b.Extension.Requirements),
		}
	}
	if b.Harvest != nil {
		kind := resource.Kind(b.Harvest.Resource)
		if !kind.Harvestable() {
			return nil, fmt.Errorf("harvest resource %q is not harvestable", b.Harvest.Resource)
		}
		def.Harvest = &secondary.HarvestDef{
			Resource:     kind,
			Amount:       b.Harvest.Amount,
			MaxWorkforce: b.Harvest.MaxWorkforce,
		}
	}
	return def, nil
}

// validate checks the cross references the per-definition parsing
// cannot see.
func (c *Catalog) validate() error {
	if c.worker == "" {
		return fmt.Errorf("worker_unit is required")
	}
	if _, ok := c.units[c.worker]; !ok {
		return fmt.Errorf("worker_unit %q is not a defined unit", c.worker)
	}
	for _, s := range c.tuning.StarterUnits {
		if _, ok := c.units[s.Code]; !ok {
			return fmt.Errorf("starter unit %q is not a defined unit", s.Code)
		}
	}
	for code, b := range c.buildings {
		if err := c.checkRequirements(b.Instantiation.Requirements); err != nil {
			return fmt.Errorf("building %s: %w", code, err)
		}
		levels := make(map[int]bool)
		for _, u := range b.Upgrades {
			if u.Level < 1 {
				return fmt.Errorf("building %s: upgrade level %d is invalid", code, u.Level)
			}
			if levels[u.Level] {
				return fmt.Errorf("building %s: duplicate upgrade level %d", code, u.Level)
			}
			levels[u.Level] = true
			if err := c.checkRequirements(u.Requirements); err != nil {
				return fmt.Errorf("building %s upgrade %d: %w", code, u.Level, err)
			}
		}
		for l := 1; l <= len(levels); l++ {
			if !levels[l] {
				return fmt.Errorf("building %s: upgrade levels must be contiguous, missing %d", code, l)
			}
		}
		if b.Extension != nil {
			if b.Extension.MaxLevel < 1 {
				return fmt.Errorf("building %s: extension max_level must be positive", code)
			}
			if err := c.checkRequirements(b.Extension.Requirements); err != nil {
				return fmt.Errorf("building %s extension: %w", code, err)
			}
		}
	}
	for code, u := range c.units {
		if err := c.checkRequirements(u.Requirements); err != nil {
			return fmt.Errorf("unit %s: %w", code, err)
		}
	}
	return nil
}

func (c *Catalog) checkRequirements(reqs []requirement.Requirement) error {
	for _, r := range reqs {
		if _, ok := c.buildings[r.Code]; !ok {
			return fmt.Errorf("requirement references undefined building %q", r.Code)
		}
	}
	return nil
}

func requirements(docs []requirementDoc) []requirement.Requirement {
	var out []requirement.Requirement
	for _, d := range docs {
		out = append(out, requirement.Requirement{Code: d.Building, UpgradeLevel: d.UpgradeLevel})
	}
	return out
}

func amounts(m map[string]int64) (resource.Amounts, error) {
	var out resource.Amounts
	for key, n := range m {
		kind := resource.Kind(key)
		if !kind.Valid() {
			return out, fmt.Errorf("unknown resource %q", key)
		}
		if n < 0 {
			return out, fmt.Errorf("resource %q: negative amount %d", key, n)
		}
		out.Add(kind, n)
	}
	return out, nil
}

// Building retrieves a building definition by code.
func (c *Catalog) Building(code string) (*secondary.BuildingDef, bool) {
	d, ok := c.buildings[code]
	return d, ok
}

// Unit retrieves a unit definition by code.
func (c *Catalog) Unit(code string) (*secondary.UnitDef, bool) {
	d, ok := c.units[code]
	return d, ok
}

// Zone retrieves a zone definition by code.
func (c *Catalog) Zone(code string) (*secondary.ZoneDef, bool) {
	d, ok := c.zones[code]
	return d, ok
}

// Buildings lists every building definition in declaration order.
func (c *Catalog) Buildings() []secondary.BuildingDef {
	out := make([]secondary.BuildingDef, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, *c.buildings[code])
	}
	return out
}

// Units lists every unit definition in declaration order.
func (c *Catalog) Units() []secondary.UnitDef {
	out := make([]secondary.UnitDef, 0, len(c.unitOrder))
	for _, code := range c.unitOrder {
		out = append(out, *c.units[code])
	}
	return out
}

// Zones lists every zone definition sorted by code.
func (c *Catalog) Zones() []secondary.ZoneDef {
	codes := make([]string, 0, len(c.zones))
	for code := range c.zones {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	out := make([]secondary.ZoneDef, 0, len(codes))
	for _, code := range codes {
		out = append(out, *c.zones[code])
	}
	return out
}

// WorkerUnit returns the unit code that staffs construction sites.
func (c *Catalog) WorkerUnit() string { return c.worker }

// Tuning returns the numeric tuning knobs.
func (c *Catalog) Tuning() secondary.Tuning { return c.tuning }
