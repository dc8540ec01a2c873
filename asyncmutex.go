// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtime

import "v.io/x/vtime/nsync"

// AsyncMutex is a mutual-exclusion primitive whose Lock is a non-time
// suspension: a task blocked on it is not woken by the Driver's own wait
// queue bookkeeping, but by whichever task next calls Unlock. It exercises
// the classifier's "suspended for a reason other than time" path, and is
// not a general inter-task messaging facility.
//
// Its waiter list is guarded by an nsync.Mu, continuing the same short
// critical section discipline the Driver itself uses rather than reaching
// for sync.Mutex. Waking a parked task hands it ownership directly (a
// waiter either acquires or goes back to waiting, never contends with a
// third task for the same grant), but Lock still retests ownership after
// waking in a for-loop, the Mesa-style retest-after-wake discipline, rather
// than assuming the first wake-up it receives is always the right one.
type AsyncMutex[T Time[T], S any] struct {
	guard   nsync.Mu
	locked  bool
	owner   uint64
	waiters []uint64
}

// NewAsyncMutex returns an unlocked AsyncMutex.
func NewAsyncMutex[T Time[T], S any]() *AsyncMutex[T, S] {
	return &AsyncMutex[T, S]{}
}

// Lock acquires the mutex, suspending the calling task (via h) if it is
// already held.
func (m *AsyncMutex[T, S]) Lock(h Handle[T, S]) {
	for {
		m.guard.Lock()
		if !m.locked {
			m.locked = true
			m.owner = h.id
			m.guard.Unlock()
			return
		}
		m.waiters = append(m.waiters, h.id)
		m.guard.Unlock()

		h.suspendNonTime()

		m.guard.Lock()
		acquired := m.locked && m.owner == h.id
		m.guard.Unlock()
		if acquired {
			return
		}
	}
}

// Unlock releases the mutex. It panics if the calling task does not hold
// it. If a task is waiting, ownership is transferred directly to the
// longest-waiting one, which is then scheduled to resume at the Driver's
// current virtual time.
func (m *AsyncMutex[T, S]) Unlock(h Handle[T, S]) {
	m.guard.Lock()
	if !m.locked || m.owner != h.id {
		m.guard.Unlock()
		panic(errAsyncMutexNotOwner)
	}
	if len(m.waiters) == 0 {
		m.locked = false
		m.guard.Unlock()
		return
	}
	next := m.waiters[0]
	m.waiters = m.waiters[1:]
	m.owner = next
	m.guard.Unlock()

	h.wakeNow(next)
}
