// Package deque keeps the recent trend samples of a session in a fixed
// array, oldest first. Charts traverse the whole buffer on every push, so a
// contiguous array beats a linked list here.
package deque

import "thermal/model"

type Deque interface {
	// 队列的长度
	Size() int

	// Get returns the i-th sample counting from the oldest.
	Get(i int) model.Sample

	// 正向遍历
	Traverse(f func(i int, item *model.Sample))

	// AddLast appends a sample; it reports false when the deque is full.
	AddLast(item model.Sample) bool

	RemoveLast()

	// AddFirst prepends a sample; it reports false when the deque is full.
	AddFirst(item model.Sample) bool

	RemoveFirst()

	IsFull() bool

	IsEmpty() bool
}
