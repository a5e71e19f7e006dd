package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// driveTemp moves the furnace straight onto the temperature for fuel:
// with dt=2 the temperature lag factor is exactly one.
func driveTemp(t *testing.T, m *Model, temp float64) Snapshot {
	t.Helper()
	m.SetFuelInput((temp - 100) / 5)
	require.NoError(t, m.Advance(2))
	s := m.Snapshot()
	require.Equal(t, temp, s.BoilerTemp)
	return s
}

func TestOverheatHysteresis(t *testing.T) {
	m := NewModel()
	m.Start()

	raised, cleared := 0, 0
	active := false
	for _, temp := range []float64{500, 560, 545, 550, 540, 545, 550, 535} {
		s := driveTemp(t, m, temp)
		now := s.HasAlarm(AlarmBoilerOverheat)
		if now && !active {
			raised++
			assert.Equal(t, 560.0, temp)
		}
		if !now && active {
			cleared++
			assert.Equal(t, 535.0, temp)
		}
		active = now
	}
	assert.Equal(t, 1, raised)
	assert.Equal(t, 1, cleared)
}

func TestDismissIsStickyUntilRisingEdge(t *testing.T) {
	m := NewModel()
	m.Start()
	driveTemp(t, m, 500)
	require.True(t, driveTemp(t, m, 560).HasAlarm(AlarmBoilerOverheat))

	m.DismissAlarm(AlarmBoilerOverheat)
	assert.False(t, m.Snapshot().HasAlarm(AlarmBoilerOverheat))

	// still above the limit, no new edge
	assert.False(t, driveTemp(t, m, 560).HasAlarm(AlarmBoilerOverheat))
	assert.False(t, driveTemp(t, m, 570).HasAlarm(AlarmBoilerOverheat))

	// back into the band, then across the high limit again
	assert.False(t, driveTemp(t, m, 545).HasAlarm(AlarmBoilerOverheat))
	assert.True(t, driveTemp(t, m, 555).HasAlarm(AlarmBoilerOverheat))
}

func TestDismissThenRecoverThenReraise(t *testing.T) {
	m := NewModel()
	m.Start()
	driveTemp(t, m, 500)
	driveTemp(t, m, 560)
	m.DismissAlarm(AlarmBoilerOverheat)

	assert.False(t, driveTemp(t, m, 500).HasAlarm(AlarmBoilerOverheat))
	assert.True(t, driveTemp(t, m, 580).HasAlarm(AlarmBoilerOverheat))
}

func TestThresholdAlarmsAreDeduplicated(t *testing.T) {
	m := NewModel()
	m.Start()
	driveTemp(t, m, 500)
	for _, temp := range []float64{560, 545, 555, 550, 590} {
		driveTemp(t, m, temp)
	}
	n := 0
	for _, k := range m.Snapshot().ActiveAlarms {
		if k == AlarmBoilerOverheat {
			n++
		}
	}
	assert.Equal(t, 1, n)
}

func TestOverpressureBand(t *testing.T) {
	a := newAlarms()
	steps := []struct {
		value float64
		want  bool
	}{
		{250, false},
		{280, false}, // the limit itself does not raise
		{281, true},
		{275, true},
		{270, true}, // the clear limit itself does not clear
		{269.9, false},
		{279, false},
		{290, true},
	}
	prev := 100.0
	for _, st := range steps {
		a.evaluate(overpressure, prev, st.value)
		assert.Equal(t, st.want, a.has(AlarmBoilerOverpressure), "value=%v", st.value)
		prev = st.value
	}
}

func TestRaiseAlarmPolicy(t *testing.T) {
	a := newAlarms()
	a.raiseAlarm(AlarmBoilerOverheat)
	a.raiseAlarm(AlarmBoilerOverheat)
	a.raiseAlarm(AlarmTurbineTrip)
	a.raiseAlarm(AlarmTurbineTrip)
	assert.Equal(t, []AlarmKind{AlarmBoilerOverheat, AlarmTurbineTrip, AlarmTurbineTrip}, a.snapshot())

	assert.Equal(t, 2, a.remove(AlarmTurbineTrip))
	assert.Equal(t, 0, a.remove(AlarmBoilerOverpressure))
	assert.Equal(t, []AlarmKind{AlarmBoilerOverheat}, a.snapshot())
}

func TestParseAlarmKind(t *testing.T) {
	for _, k := range AlarmKinds() {
		got, ok := ParseAlarmKind(string(k))
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := ParseAlarmKind("BOILER ON FIRE")
	assert.False(t, ok)
}
