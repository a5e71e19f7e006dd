// Package process models the boiler, turbine and generator of a coal fired
// unit as a chain of first-order lags driven by fuel rate and valve demand.
package process

import (
	"fmt"
	"math"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Construction defaults.
const (
	DefaultFuelInput      = 50.0
	DefaultTargetLoad     = 50.0
	DefaultBoilerTemp     = 300.0
	DefaultBoilerPressure = 100.0
	DefaultSteamFlowRate  = 50.0
)

// Update law constants.
const (
	baseTemp        = 100.0 // furnace temperature at zero fuel, °C
	tempPerFuel     = 5.0   // °C per % fuel
	tempRate        = 0.5
	pressurePerTemp = 0.5 // bar per °C
	pressureRate    = 1.0
	flowRate        = 2.0
	rpmPerFlow      = 30.0
	rpmRate         = 0.2
	rpmRateTripped  = 0.5 // trip valve closed, coast down faster

	// Below this speed, with nothing driving the shaft, it is at rest.
	standstillRPM = 1e-3

	// AdvanceBy refuses intervals needing more sub-steps than this.
	maxSubSteps = 1 << 24

	// RatedRPM and RatedMW define the generator characteristic.
	RatedRPM = 3000.0
	RatedMW  = 500.0

	MinInput = 0.0
	MaxInput = 100.0
)

// State is the plant state vector.
type State struct {
	FuelInput      float64 `json:"fuel_input"`      // %
	TargetLoad     float64 `json:"target_load"`     // %
	BoilerTemp     float64 `json:"boiler_temp"`     // °C
	BoilerPressure float64 `json:"boiler_pressure"` // bar
	SteamFlowRate  float64 `json:"steam_flow_rate"` // kg/s
	TurbineRPM     float64 `json:"turbine_rpm"`
	GeneratorMW    float64 `json:"generator_mw"`
	IsRunning      bool    `json:"is_running"`
	IsTripped      bool    `json:"is_tripped"`
	SimulationTime float64 `json:"simulation_time"` // s
}

// DefaultState returns the state of a freshly built plant.
func DefaultState() State {
	return State{
		FuelInput:      DefaultFuelInput,
		TargetLoad:     DefaultTargetLoad,
		BoilerTemp:     DefaultBoilerTemp,
		BoilerPressure: DefaultBoilerPressure,
		SteamFlowRate:  DefaultSteamFlowRate,
	}
}

// Snapshot is a complete, immutable copy of one tick.
type Snapshot struct {
	State
	ActiveAlarms []AlarmKind `json:"active_alarms"`
}

// HasAlarm reports whether kind is on the annunciator.
func (s Snapshot) HasAlarm(kind AlarmKind) bool {
	for _, k := range s.ActiveAlarms {
		if k == kind {
			return true
		}
	}
	return false
}

// Model owns the plant state. Every exported method takes the lock for its
// whole duration, so readers always see the result of a complete tick.
type Model struct {
	mu     sync.RWMutex
	state  State
	alarms alarms
}

func NewModel() *Model {
	return &Model{
		state:  DefaultState(),
		alarms: newAlarms(),
	}
}

// clampInput bounds an operator input to [0, 100]. NaN maps to 0.
func clampInput(name string, v float64) float64 {
	c := v
	switch {
	case math.IsNaN(v):
		c = MinInput
	case v < MinInput:
		c = MinInput
	case v > MaxInput:
		c = MaxInput
	}
	if c != v || math.IsNaN(v) {
		log.WithFields(log.Fields{
			"input":     name,
			"requested": v,
			"applied":   c,
		}).Debug("operator input clamped")
	}
	return c
}

// SetFuelInput sets the fuel rate in percent; it takes effect on the next tick.
func (m *Model) SetFuelInput(v float64) {
	v = clampInput("fuel_input", v)
	m.mu.Lock()
	m.state.FuelInput = v
	m.mu.Unlock()
}

// SetTargetLoad sets the turbine valve demand in percent.
func (m *Model) SetTargetLoad(v float64) {
	v = clampInput("target_load", v)
	m.mu.Lock()
	m.state.TargetLoad = v
	m.mu.Unlock()
}

// Start enables the simulation and clears the trip without checking whether
// the boiler is back inside its limits.
func (m *Model) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.IsRunning = true
	m.state.IsTripped = false
	log.WithFields(log.Fields{
		"boiler_temp":     m.state.BoilerTemp,
		"boiler_pressure": m.state.BoilerPressure,
	}).Info("unit started")
}

// Stop disables the simulation. Nothing is reset; the turbine keeps coasting
// on subsequent ticks until it stands still.
func (m *Model) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.IsRunning = false
	log.WithField("turbine_rpm", m.state.TurbineRPM).Info("unit stopped")
}

// Trip engages the safety interlock. Repeated trips each add an alarm entry.
func (m *Model) Trip() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.IsTripped = true
	m.state.IsRunning = false
	m.alarms.raiseAlarm(AlarmTurbineTrip)
	log.WithField("turbine_rpm", m.state.TurbineRPM).Warn("turbine tripped")
}

// Reset restores construction defaults and clears every alarm.
func (m *Model) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = DefaultState()
	m.alarms = newAlarms()
	log.Info("unit reset")
}

// DismissAlarm removes every occurrence of kind. The physical condition is
// untouched; a threshold alarm comes back only on a fresh rising edge.
func (m *Model) DismissAlarm(kind AlarmKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := m.alarms.remove(kind); n > 0 {
		log.WithFields(log.Fields{
			"alarm":   kind,
			"entries": n,
		}).Info("alarm dismissed")
	}
}

// Idle reports whether Advance would do nothing.
func (m *Model) Idle() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.idle()
}

func (m *Model) idle() bool {
	return !m.state.IsRunning && m.state.TurbineRPM <= 0
}

// Advance integrates the plant over dt seconds. Each stage relaxes toward a
// target computed from the value the previous stage produced in this same
// tick, so the order temp, pressure, flow, rpm, MW is significant.
func (m *Model) Advance(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return fmt.Errorf("advance by %v: %w", dt, ErrNonPositiveTimestep)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.idle() {
		return nil
	}

	s := m.state

	// Products are converted explicitly so the compiler cannot fuse them into
	// multiply-adds; every stage rounds exactly as plain IEEE-754 doubles.
	targetTemp := baseTemp + float64(s.FuelInput*tempPerFuel)
	newTemp := s.BoilerTemp + float64((targetTemp-s.BoilerTemp)*dt*tempRate)

	targetPressure := float64(newTemp * pressurePerTemp)
	newPressure := s.BoilerPressure + float64((targetPressure-s.BoilerPressure)*dt*pressureRate)

	valveOpening := s.TargetLoad / 100
	targetFlow := float64(newPressure * valveOpening)
	newFlow := s.SteamFlowRate + float64((targetFlow-s.SteamFlowRate)*dt*flowRate)

	targetRPM := float64(newFlow * rpmPerFlow)
	rate := rpmRate
	if s.IsTripped {
		targetRPM = 0
		rate = rpmRateTripped
	}
	newRPM := s.TurbineRPM + float64((targetRPM-s.TurbineRPM)*dt*rate)
	// The lag only approaches zero; nothing driving the shaft means at rest.
	if newRPM < standstillRPM && targetRPM < standstillRPM {
		newRPM = 0
	}

	newMW := (newRPM / RatedRPM) * RatedMW

	m.alarms.evaluate(overheat, s.BoilerTemp, newTemp)
	m.alarms.evaluate(overpressure, s.BoilerPressure, newPressure)

	m.state.SimulationTime = s.SimulationTime + dt
	m.state.BoilerTemp = newTemp
	m.state.BoilerPressure = newPressure
	m.state.SteamFlowRate = newFlow
	m.state.TurbineRPM = math.Max(0, newRPM)
	m.state.GeneratorMW = math.Max(0, newMW)
	return nil
}

// AdvanceBy integrates over total seconds in equal sub-steps no longer
// than maxStep.
func (m *Model) AdvanceBy(total, maxStep float64) error {
	if !(total > 0) || math.IsInf(total, 1) {
		return fmt.Errorf("advance by %v: %w", total, ErrNonPositiveTimestep)
	}
	if !(maxStep > 0) || math.IsInf(maxStep, 1) {
		return fmt.Errorf("max step %v: %w", maxStep, ErrNonPositiveTimestep)
	}
	n, step, err := subSteps(total, maxStep)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := m.Advance(step); err != nil {
			return err
		}
	}
	return nil
}

// subSteps splits total into n equal steps of at most maxStep. Both
// arguments must be positive and finite.
func subSteps(total, maxStep float64) (int, float64, error) {
	q := math.Ceil(total / maxStep)
	if q > maxSubSteps {
		return 0, 0, fmt.Errorf("advance by %v in steps of %v: %w", total, maxStep, ErrTooManySubSteps)
	}
	n := int(q)
	if n < 1 {
		n = 1
	}
	return n, total / float64(n), nil
}

// Snapshot returns a copy of the latest state and alarm list.
func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		State:        m.state,
		ActiveAlarms: m.alarms.snapshot(),
	}
}
