// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtime

import "container/heap"

// waitEntry is one pending wake-up: task id should resume no earlier than
// wake. seq breaks ties between entries with equal wake times, giving a
// deterministic FIFO order among them rather than leaving it to whatever
// order container/heap happens to swap entries in.
type waitEntry[T Time[T]] struct {
	wake T
	id   uint64
	seq  uint64
}

// waitHeap is the container/heap.Interface implementation backing
// waitQueue. It is a plain slice ordered as a min-heap on (wake, seq).
type waitHeap[T Time[T]] []waitEntry[T]

func (h waitHeap[T]) Len() int { return len(h) }

func (h waitHeap[T]) Less(i, j int) bool {
	if h[i].wake.Less(h[j].wake) {
		return true
	}
	if h[j].wake.Less(h[i].wake) {
		return false
	}
	return h[i].seq < h[j].seq
}

func (h waitHeap[T]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *waitHeap[T]) Push(x any) {
	*h = append(*h, x.(waitEntry[T]))
}

func (h *waitHeap[T]) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}

// waitQueue is the WaitQueue component: a priority queue of (wake, id)
// pairs ordered by wake time, with FIFO tie-breaking among equal times. It
// is not safe for concurrent use; callers serialize access with the
// Driver's internal mutex.
type waitQueue[T Time[T]] struct {
	h       waitHeap[T]
	nextSeq uint64
}

// push inserts a wake-up request for id at instant wake.
func (q *waitQueue[T]) push(wake T, id uint64) {
	heap.Push(&q.h, waitEntry[T]{wake: wake, id: id, seq: q.nextSeq})
	q.nextSeq++
}

// empty reports whether the queue has no pending wake-ups.
func (q *waitQueue[T]) empty() bool { return len(q.h) == 0 }

// peekWake returns the earliest pending wake time. It panics if the queue
// is empty.
func (q *waitQueue[T]) peekWake() T {
	if q.empty() {
		panic(errWaitQueueEmpty)
	}
	return q.h[0].wake
}

// popEarliest removes and returns the entry with the earliest wake time
// (FIFO among ties). It panics if the queue is empty.
func (q *waitQueue[T]) popEarliest() waitEntry[T] {
	if q.empty() {
		panic(errWaitQueueEmpty)
	}
	return heap.Pop(&q.h).(waitEntry[T])
}

// removeTask drops every pending wake-up belonging to id. The Driver calls
// it when a task completes or panics, so that no entry for that id outlives
// the task; entries of tasks it spawned carry their own ids and are kept.
func (q *waitQueue[T]) removeTask(id uint64) {
	kept := q.h[:0]
	for _, e := range q.h {
		if e.id != id {
			kept = append(kept, e)
		}
	}
	q.h = kept
	heap.Init(&q.h)
}
