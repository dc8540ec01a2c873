// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtime

import "testing"

func TestWaitQueueOrdersByWakeThenFIFO(t *testing.T) {
	var q waitQueue[Ticks]
	q.push(5, 100)
	q.push(1, 200)
	q.push(1, 201)
	q.push(3, 300)

	want := []uint64{200, 201, 300, 100}
	for _, id := range want {
		if q.empty() {
			t.Fatalf("queue emptied early, expected id %d next", id)
		}
		got := q.popEarliest()
		if got.id != id {
			t.Fatalf("got id %d, want %d", got.id, id)
		}
	}
	if !q.empty() {
		t.Fatalf("expected queue to be empty")
	}
}

func TestWaitQueueRemoveTask(t *testing.T) {
	var q waitQueue[Ticks]
	q.push(1, 1)
	q.push(2, 2)
	q.push(3, 1)
	q.removeTask(1)

	if q.empty() {
		t.Fatalf("expected one entry to remain")
	}
	got := q.popEarliest()
	if got.id != 2 {
		t.Fatalf("got id %d, want 2", got.id)
	}
	if !q.empty() {
		t.Fatalf("expected queue to be empty after removing the last entry")
	}
}

func TestWaitQueuePeekWakePanicsWhenEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected peekWake to panic on an empty queue")
		}
	}()
	var q waitQueue[Ticks]
	q.peekWake()
}
