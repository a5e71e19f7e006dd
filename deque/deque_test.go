package deque

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermal/model"
)

func sample(t float64) model.Sample {
	return model.Sample{Time: t, TurbineRPM: t * 10}
}

func TestNewArrDequeRoundsCapacity(t *testing.T) {
	assert.Equal(t, 8, NewArrDeque(5).Capacity())
	assert.Equal(t, 16, NewArrDeque(16).Capacity())
	assert.Equal(t, 8, NewArrDeque(0).Capacity())
}

func TestArrDeque_AddRemove(t *testing.T) {
	var d Deque = NewArrDeque(8)
	assert.True(t, d.IsEmpty())

	require.True(t, d.AddLast(sample(2)))
	require.True(t, d.AddLast(sample(3)))
	require.True(t, d.AddFirst(sample(1)))
	assert.Equal(t, 3, d.Size())
	assert.Equal(t, 1.0, d.Get(0).Time)
	assert.Equal(t, 3.0, d.Get(2).Time)

	d.RemoveFirst()
	d.RemoveLast()
	assert.Equal(t, 1, d.Size())
	assert.Equal(t, 2.0, d.Get(0).Time)

	d.RemoveLast()
	d.RemoveLast()
	assert.True(t, d.IsEmpty())
}

func TestArrDeque_FullRejectsAdds(t *testing.T) {
	d := NewArrDeque(8)
	for i := 0; i < 8; i++ {
		require.True(t, d.AddLast(sample(float64(i))))
	}
	assert.True(t, d.IsFull())
	assert.False(t, d.AddLast(sample(99)))
	assert.False(t, d.AddFirst(sample(99)))
	assert.Equal(t, 7.0, d.Get(7).Time)
}

func TestArrDeque_PushEvictsOldest(t *testing.T) {
	d := NewArrDeque(8)
	for i := 0; i < 20; i++ {
		d.Push(sample(float64(i)))
	}
	require.Equal(t, 8, d.Size())

	got := d.Slice()
	for i, s := range got {
		assert.Equal(t, float64(12+i), s.Time)
	}
}

func TestArrDeque_GetOutOfRange(t *testing.T) {
	d := NewArrDeque(8)
	d.Push(sample(1))
	assert.Panics(t, func() { d.Get(1) })
	assert.Panics(t, func() { d.Get(-1) })
}

func TestArrDeque_Traverse(t *testing.T) {
	d := NewArrDeque(8)
	for i := 0; i < 11; i++ {
		d.Push(sample(float64(i)))
	}
	var idx []int
	d.Traverse(func(i int, item *model.Sample) {
		idx = append(idx, i)
		item.GeneratorMW = item.Time
	})
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, idx)
	assert.Equal(t, 10.0, d.Get(7).GeneratorMW)
}

func TestArrDeque_Clear(t *testing.T) {
	d := NewArrDeque(8)
	for i := 0; i < 5; i++ {
		d.Push(sample(float64(i)))
	}
	d.Clear()
	assert.True(t, d.IsEmpty())
	assert.Empty(t, d.Slice())
	d.Push(sample(42))
	assert.Equal(t, 42.0, d.Get(0).Time)
}

func BenchmarkArrDeque_Push(b *testing.B) {
	d := NewArrDeque(4000)
	s := sample(1)
	for i := 0; i < b.N; i++ {
		d.Push(s)
	}
}

func BenchmarkArrDeque_Traverse(b *testing.B) {
	d := NewArrDeque(4000)
	for i := 0; i < 4000; i++ {
		d.Push(sample(float64(i)))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Traverse(func(_ int, item *model.Sample) {
			item.GeneratorMW++
		})
	}
}
