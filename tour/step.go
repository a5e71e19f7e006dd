package tour

import "fmt"

// Step is one stage of the guided tour, in tour order.
type Step int

const (
	Idle Step = iota
	CoalHandling
	Combustion
	SteamGeneration
	TurbineRotation
	PowerGeneration
	Transmission

	stepCount
)

// Vec3 is a world-space position in scene units.
type Vec3 [3]float64

// View is the static descriptor the renderer consumes for a step.
type View struct {
	Step        Step      `json:"step"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    Vec3      `json:"position"` // camera
	Target      Vec3      `json:"target"`   // camera look-at
	Highlight   Subsystem `json:"highlight"`
}

var stepNames = [stepCount]string{
	Idle:            "IDLE",
	CoalHandling:    "COAL_HANDLING",
	Combustion:      "COMBUSTION",
	SteamGeneration: "STEAM_GENERATION",
	TurbineRotation: "TURBINE_ROTATION",
	PowerGeneration: "POWER_GENERATION",
	Transmission:    "TRANSMISSION",
}

var views = [stepCount]View{
	Idle: {
		Title:       "Thermal Power Plant",
		Description: `Welcome to the interactive Thermal Power Plant simulation. Click "Next" to start the tour.`,
		Position:    Vec3{5, 12, 25},
		Target:      Vec3{-5, 4, 0},
		Highlight:   SubsystemNone,
	},
	CoalHandling: {
		Title:       "Coal Handling",
		Description: "Coal is transported via conveyor belts to the pulverizers, where it is crushed into a fine powder to ensure efficient combustion.",
		Position:    Vec3{-15, 8, 15},
		Target:      Vec3{-18, 2, 0},
		Highlight:   CoalConveyor,
	},
	Combustion: {
		Title:       "Combustion (Boiler)",
		Description: "The pulverized coal is blown into the boiler furnace and ignited. This releases massive amounts of heat energy.",
		Position:    Vec3{-5, 10, 15},
		Target:      Vec3{-10, 4, 0},
		Highlight:   BoilerFurnace,
	},
	SteamGeneration: {
		Title:       "Steam Generation",
		Description: "Heat from combustion boils water flowing through tubes in the boiler walls, turning it into high-pressure, high-temperature steam.",
		Position:    Vec3{0, 8, 12},
		Target:      Vec3{-5, 4, 0},
		Highlight:   BoilerFurnace,
	},
	TurbineRotation: {
		Title:       "Steam Turbine",
		Description: "The high-pressure steam strikes the turbine blades, causing the shaft to rotate at high speeds (typically 3000 RPM).",
		Position:    Vec3{5, 8, 12},
		Target:      Vec3{0, 2, 0},
		Highlight:   SteamTurbine,
	},
	PowerGeneration: {
		Title:       "Generator",
		Description: "The rotating turbine shaft turns the generator rotor inside a magnetic field, inducing an electric current (electricity).",
		Position:    Vec3{12, 8, 12},
		Target:      Vec3{6, 2, 0},
		Highlight:   ElectricGenerator,
	},
	Transmission: {
		Title:       "Transmission",
		Description: "The generated electricity is stepped up by transformers to high voltage for efficient long-distance transmission via the grid.",
		Position:    Vec3{20, 15, 20},
		Target:      Vec3{10, 0, -5},
		Highlight:   TransmissionGrid,
	},
}

// Steps returns the tour in order.
func Steps() []Step {
	out := make([]Step, stepCount)
	for i := range out {
		out[i] = Step(i)
	}
	return out
}

func (s Step) Valid() bool {
	return s >= Idle && s < stepCount
}

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%v: %w", s, ErrInvalidStep)
	}
	return []byte(stepNames[s]), nil
}

func (s *Step) UnmarshalText(b []byte) error {
	p, err := ParseStep(string(b))
	if err != nil {
		return err
	}
	*s = p
	return nil
}

// ParseStep maps a wire name such as "COMBUSTION" to its step.
func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if n == name {
			return Step(i), nil
		}
	}
	return Idle, fmt.Errorf("step %q: %w", name, ErrInvalidStep)
}

// ViewOf returns the descriptor of a step.
func ViewOf(s Step) (View, error) {
	if !s.Valid() {
		return View{}, fmt.Errorf("%v: %w", s, ErrInvalidStep)
	}
	v := views[s]
	v.Step = s
	return v, nil
}
