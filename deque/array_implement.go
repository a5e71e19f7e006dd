package deque

import "thermal/model"

// 数组大小基数
const base = 8

// ArrDeque is a ring over one preallocated array.
type ArrDeque struct {
	arr []model.Sample
	// index of the oldest element
	start int
	// 元素个数
	size int
}

// NewArrDeque rounds capacity up to a multiple of 8.
func NewArrDeque(capacity int) *ArrDeque {
	if capacity < 1 {
		capacity = 1
	}
	if remainder := capacity % base; remainder != 0 {
		capacity = capacity - remainder + base
	}
	return &ArrDeque{arr: make([]model.Sample, capacity)}
}

func (ad *ArrDeque) Size() int {
	return ad.size
}

func (ad *ArrDeque) Capacity() int {
	return len(ad.arr)
}

func (ad *ArrDeque) index(i int) int {
	return (ad.start + i) % len(ad.arr)
}

func (ad *ArrDeque) Get(i int) model.Sample {
	if i < 0 || i >= ad.size {
		panic("index out of length")
	}
	return ad.arr[ad.index(i)]
}

func (ad *ArrDeque) Traverse(f func(i int, item *model.Sample)) {
	for i := 0; i < ad.size; i++ {
		f(i, &ad.arr[ad.index(i)])
	}
}

func (ad *ArrDeque) AddLast(item model.Sample) bool {
	if ad.IsFull() {
		return false
	}
	ad.arr[ad.index(ad.size)] = item
	ad.size++
	return true
}

func (ad *ArrDeque) RemoveLast() {
	if ad.IsEmpty() {
		return
	}
	ad.size--
	ad.arr[ad.index(ad.size)] = model.Sample{}
}

func (ad *ArrDeque) AddFirst(item model.Sample) bool {
	if ad.IsFull() {
		return false
	}
	ad.start = (ad.start - 1 + len(ad.arr)) % len(ad.arr)
	ad.arr[ad.start] = item
	ad.size++
	return true
}

func (ad *ArrDeque) RemoveFirst() {
	if ad.IsEmpty() {
		return
	}
	ad.arr[ad.start] = model.Sample{}
	ad.start = ad.index(1)
	ad.size--
}

// Push appends a sample, evicting the oldest one when full.
func (ad *ArrDeque) Push(item model.Sample) {
	if ad.IsFull() {
		ad.RemoveFirst()
	}
	ad.AddLast(item)
}

// Slice copies the contents out, oldest first.
func (ad *ArrDeque) Slice() []model.Sample {
	out := make([]model.Sample, 0, ad.size)
	ad.Traverse(func(_ int, item *model.Sample) {
		out = append(out, *item)
	})
	return out
}

// Clear drops every element.
func (ad *ArrDeque) Clear() {
	for ad.size > 0 {
		ad.RemoveLast()
	}
	ad.start = 0
}

func (ad *ArrDeque) IsFull() bool {
	return ad.size == len(ad.arr)
}

func (ad *ArrDeque) IsEmpty() bool {
	return ad.size == 0
}
