package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FormationEntry defines one formation of a scenario and the units spawned in it.
type FormationEntry struct {
	Name       string     `yaml:"name"`
	Faction    int32      `yaml:"faction"`
	X          float64    `yaml:"x"`
	Y          float64    `yaml:"y"`
	Z          float64    `yaml:"z"`
	HeadingDeg float64    `yaml:"heading"`    // formation yaw, +X toward +Z
	SlotYawDeg float64    `yaml:"slot_yaw"`   // extra yaw applied to slot offsets
	Cols       int        `yaml:"cols"`
	Rows       int        `yaml:"rows"`
	SpacingX   float64    `yaml:"spacing_x"`
	SpacingZ   float64    `yaml:"spacing_z"`
	Units      int        `yaml:"units"` // 0 = cols*rows
	Speed      float64    `yaml:"speed"`
	Melee      bool       `yaml:"melee"`
	Waypoints  []Waypoint `yaml:"waypoints"`
}

// Waypoint moves the formation anchor at a given tick. It stands in for the
// navigation layer that normally drives the formation leader.
type Waypoint struct {
	Tick       uint64  `yaml:"tick"`
	X          float64 `yaml:"x"`
	Z          float64 `yaml:"z"`
	HeadingDeg float64 `yaml:"heading"`
	AttackMode bool    `yaml:"attack"` // formation is in attack range from this tick
}

// Scenario is a set of formations loaded from YAML.
type Scenario struct {
	Name       string           `yaml:"name"`
	Formations []FormationEntry `yaml:"formations"`
}

// UnitCount is the total number of units the scenario spawns.
func (s *Scenario) UnitCount() int {
	n := 0
	for i := range s.Formations {
		n += s.Formations[i].UnitTotal()
	}
	return n
}

// UnitTotal resolves the unit count of a formation.
func (f *FormationEntry) UnitTotal() int {
	if f.Units > 0 {
		return f.Units
	}
	return f.Cols * f.Rows
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(raw)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	for i := range s.Formations {
		f := &s.Formations[i]
		if f.Cols <= 0 || f.Rows <= 0 {
			return nil, fmt.Errorf("formation %q: cols and rows must be positive", f.Name)
		}
		if f.Speed <= 0 {
			return nil, fmt.Errorf("formation %q: speed must be positive", f.Name)
		}
		if f.SpacingX == 0 {
			f.SpacingX = 1
		}
		if f.SpacingZ == 0 {
			f.SpacingZ = f.SpacingX
		}
	}
	return &s, nil
}
