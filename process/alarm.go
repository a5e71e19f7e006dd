package process

import (
	log "github.com/sirupsen/logrus"
)

// AlarmKind identifies an annunciator alarm.
type AlarmKind string

const (
	AlarmBoilerOverheat     AlarmKind = "BOILER OVERHEAT"
	AlarmBoilerOverpressure AlarmKind = "BOILER OVERPRESSURE"
	AlarmTurbineTrip        AlarmKind = "TURBINE TRIP"
)

// AlarmKinds lists every alarm kind in annunciator order.
func AlarmKinds() []AlarmKind {
	return []AlarmKind{AlarmBoilerOverheat, AlarmBoilerOverpressure, AlarmTurbineTrip}
}

// ParseAlarmKind maps a wire name back to its kind.
func ParseAlarmKind(name string) (AlarmKind, bool) {
	for _, k := range AlarmKinds() {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// threshold is a hysteresis band: raise above high, clear below low.
type threshold struct {
	kind AlarmKind
	high float64
	low  float64
}

var (
	overheat     = threshold{kind: AlarmBoilerOverheat, high: 550, low: 540}
	overpressure = threshold{kind: AlarmBoilerOverpressure, high: 280, low: 270}
)

// alarms holds the annunciator list and the latch of each threshold alarm.
// A latched alarm stays latched after dismissal until its value falls below
// the low limit or rises across the high limit again.
type alarms struct {
	active  []AlarmKind
	latched map[AlarmKind]bool
}

func newAlarms() alarms {
	return alarms{
		active:  make([]AlarmKind, 0, 4),
		latched: make(map[AlarmKind]bool, 2),
	}
}

// raiseAlarm is the one place that decides how a raised alarm enters the list.
// Threshold alarms are a set; trip alarms are appended on every trip, so the
// list doubles as a trip log.
func (a *alarms) raiseAlarm(kind AlarmKind) {
	if kind != AlarmTurbineTrip && a.has(kind) {
		return
	}
	a.active = append(a.active, kind)
}

func (a *alarms) has(kind AlarmKind) bool {
	for _, k := range a.active {
		if k == kind {
			return true
		}
	}
	return false
}

// remove drops every occurrence of kind and reports how many were removed.
func (a *alarms) remove(kind AlarmKind) int {
	kept := a.active[:0]
	n := 0
	for _, k := range a.active {
		if k == kind {
			n++
			continue
		}
		kept = append(kept, k)
	}
	a.active = kept
	return n
}

// evaluate applies one threshold to the value before and after a tick.
func (a *alarms) evaluate(t threshold, prev, value float64) {
	switch {
	case a.latched[t.kind] && value < t.low:
		a.latched[t.kind] = false
		if a.remove(t.kind) > 0 {
			log.WithFields(log.Fields{
				"alarm": t.kind,
				"value": value,
			}).Info("alarm cleared")
		}
	case value > t.high && (!a.latched[t.kind] || prev <= t.high):
		a.latched[t.kind] = true
		if !a.has(t.kind) {
			log.WithFields(log.Fields{
				"alarm": t.kind,
				"value": value,
				"limit": t.high,
			}).Warn("alarm raised")
		}
		a.raiseAlarm(t.kind)
	}
}

func (a *alarms) snapshot() []AlarmKind {
	out := make([]AlarmKind, len(a.active))
	copy(out, a.active)
	return out
}
