// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtime

// Handle is the capability a running task uses to suspend itself and to
// install further tasks. It is a small value safe to copy and store in
// task locals: a pointer back to the owning Driver plus the task's own id.
type Handle[T Time[T], S any] struct {
	driver *Driver[T, S]
	id     uint64
	ts     *taskState[T, S]
}

// ID returns the task's own identifier.
func (h Handle[T, S]) ID() uint64 { return h.id }

// At suspends the calling task until the Driver's virtual time reaches t.
// If t has already arrived, At returns immediately without suspending.
func (h Handle[T, S]) At(t T) {
	d := h.driver
	d.mu.Lock()
	if !d.now.Less(t) {
		// t <= now: already arrived, no suspension needed.
		d.mu.Unlock()
		return
	}
	d.wq.push(t, h.id)
	d.classifier.markByTime()
	d.mu.Unlock()

	h.ts.report <- struct{}{}
	<-h.ts.resume
}

// Delay suspends the calling task until delta has elapsed from the
// Driver's current virtual time. It is equivalent to At(h.CurrentTime().Add(delta)).
func (h Handle[T, S]) Delay(delta T) {
	d := h.driver
	d.mu.Lock()
	target := d.now.Add(delta)
	d.mu.Unlock()
	h.At(target)
}

// CurrentTime returns the Driver's current virtual time.
func (h Handle[T, S]) CurrentTime() T {
	return h.driver.CurrentTime()
}

// State returns a pointer to the Driver's shared state.
func (h Handle[T, S]) State() *S {
	return h.driver.State()
}

// Spawn installs a new task eligible to run at the Driver's current virtual
// time, from within a running task.
func (h Handle[T, S]) Spawn(f func(Handle[T, S])) uint64 {
	return h.driver.Spawn(f)
}

// SpawnAt installs a new task eligible to run at virtual time t, from
// within a running task.
func (h Handle[T, S]) SpawnAt(t T, f func(Handle[T, S])) uint64 {
	return h.driver.SpawnAt(t, f)
}

// suspendNonTime reports a suspension without touching the classifier's
// isByTime flag (it is reset to false by the Driver before every
// resumption, so leaving it untouched here is what marks this as a
// non-time suspension). It is used by primitives like AsyncMutex whose
// wake-up is arranged by another task rather than by the Driver's own
// wait-queue bookkeeping.
func (h Handle[T, S]) suspendNonTime() {
	h.ts.report <- struct{}{}
	<-h.ts.resume
}

// wakeNow schedules an immediate wake-up for the task identified by id. It
// exists for primitives built on top of Handle (AsyncMutex) that need to
// hand a parked task back to the Driver from another task's call stack.
func (h Handle[T, S]) wakeNow(id uint64) {
	h.driver.wakeNow(id)
}
