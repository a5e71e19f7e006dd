package tour

import "fmt"

// Subsystem identifies a piece of plant equipment the viewer can highlight,
// hover or select.
type Subsystem int

const (
	SubsystemNone Subsystem = iota
	CoalConveyor
	BoilerFurnace
	SteamTurbine
	ElectricGenerator
	CoolingTower
	TransmissionGrid

	subsystemCount
)

// SubsystemInfo is the display text of a subsystem.
type SubsystemInfo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var subsystems = [subsystemCount]SubsystemInfo{
	SubsystemNone: {Key: "none"},
	CoalConveyor: {
		Key:         "coal_conveyor",
		Name:        "Coal Conveyor",
		Description: "Carries crushed coal from the yard to the pulverizers.",
	},
	BoilerFurnace: {
		Key:         "boiler_furnace",
		Name:        "Boiler Furnace",
		Description: "Converts chemical energy from fuel into heat energy.",
	},
	SteamTurbine: {
		Key:         "steam_turbine",
		Name:        "Steam Turbine",
		Description: "Converts thermal energy of steam into mechanical rotation.",
	},
	ElectricGenerator: {
		Key:         "electric_generator",
		Name:        "Electric Generator",
		Description: "Converts mechanical rotation into electrical energy.",
	},
	CoolingTower: {
		Key:         "cooling_tower",
		Name:        "Cooling Tower",
		Description: "Rejects waste heat to the atmosphere through evaporation.",
	},
	TransmissionGrid: {
		Key:         "transmission_grid",
		Name:        "Transmission Grid",
		Description: "Step-up transformers feed the high voltage lines.",
	},
}

func (s Subsystem) Valid() bool {
	return s >= SubsystemNone && s < subsystemCount
}

// Info returns the display text; an invalid subsystem yields the zero value.
func (s Subsystem) Info() SubsystemInfo {
	if !s.Valid() {
		return SubsystemInfo{}
	}
	return subsystems[s]
}

func (s Subsystem) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Subsystem(%d)", int(s))
	}
	return subsystems[s].Key
}

func (s Subsystem) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%v: %w", s, ErrUnknownSubsystem)
	}
	return []byte(subsystems[s].Key), nil
}

func (s *Subsystem) UnmarshalText(b []byte) error {
	p, err := ParseSubsystem(string(b))
	if err != nil {
		return err
	}
	*s = p
	return nil
}

// ParseSubsystem accepts a key or a display name. The empty string is SubsystemNone.
func ParseSubsystem(name string) (Subsystem, error) {
	if name == "" {
		return SubsystemNone, nil
	}
	for i, info := range subsystems {
		if info.Key == name || (info.Name != "" && info.Name == name) {
			return Subsystem(i), nil
		}
	}
	return SubsystemNone, fmt.Errorf("subsystem %q: %w", name, ErrUnknownSubsystem)
}
