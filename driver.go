// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtime

import (
	"context"

	"v.io/x/vtime/nsync"
	"v.io/x/vtime/textutil"
	"v.io/x/vtime/vlog"
)

// Driver is the scheduler itself: it owns the virtual clock, the wait
// queue, the task table, and the classifier, and drives them forward one
// resumption at a time. The zero value is not useful; construct with New.
//
// A *Driver is safe for one driving goroutine plus any number of task
// bodies calling back into it through their Handle. Concurrent callers of
// Drive/DriveShared/DriveSharedBlock are only safe if they use the Shared
// variants, which serialize against each other with a dedicated mutex; the
// non-shared Drive/DriveBlock assume a single caller; that is the
// distinction between a caller that owns driving outright and one that
// shares the job with others.
type Driver[T Time[T], S any] struct {
	mu nsync.Mu // guards now, wq, tasks, nextID; never held across a task handshake.

	now    T
	wq     waitQueue[T]
	tasks  taskTable[T, S]
	nextID uint64
	state  S

	classifier classifier
	driveMu    nsync.Mu // serializes DriveShared/DriveSharedBlock callers.

	logger vlog.Logger
	trace  textutil.WriteFlushCloser
}

// Option configures a Driver at construction time.
type Option[T Time[T], S any] func(*Driver[T, S])

// WithTime sets the Driver's initial virtual time. The zero value of T is
// used if this option is omitted.
func WithTime[T Time[T], S any](t T) Option[T, S] {
	return func(d *Driver[T, S]) { d.now = t }
}

// WithState sets the Driver's initial shared state. The zero value of S is
// used if this option is omitted.
func WithState[T Time[T], S any](s S) Option[T, S] {
	return func(d *Driver[T, S]) { d.state = s }
}

// WithLogger overrides the logger used for spawn/drive/panic diagnostics.
// The package default vlog.Log is used if this option is omitted.
func WithLogger[T Time[T], S any](l vlog.Logger) Option[T, S] {
	return func(d *Driver[T, S]) { d.logger = l }
}

// New constructs a Driver. By default its virtual time and shared state are
// the zero values of T and S; use WithTime and WithState to set either or
// both explicitly.
func New[T Time[T], S any](opts ...Option[T, S]) *Driver[T, S] {
	d := &Driver[T, S]{
		tasks:  newTaskTable[T, S](),
		logger: vlog.Log,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CurrentTime returns the Driver's current virtual time.
func (d *Driver[T, S]) CurrentTime() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now
}

// State returns a pointer to the Driver's shared state. The pointer is
// stable for the Driver's lifetime; callers running inside a task body may
// mutate through it freely, since tasks never run concurrently with one
// another or with the driving goroutine.
func (d *Driver[T, S]) State() *S {
	return &d.state
}

// IntoState consumes the Driver and returns its shared state. It panics if
// any task is still installed, since handing out the state of a scheduler
// that still has live tasks has no sensible partial semantics.
func (d *Driver[T, S]) IntoState() S {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tasks.len() != 0 {
		panic(errIntoStateWithTasks)
	}
	return d.state
}

// Spawn installs a new task that becomes eligible to run at the Driver's
// current virtual time, and returns its id.
func (d *Driver[T, S]) Spawn(f func(Handle[T, S])) uint64 {
	return d.spawn(nil, f)
}

// SpawnAt installs a new task that becomes eligible to run at virtual time
// t, and returns its id.
func (d *Driver[T, S]) SpawnAt(t T, f func(Handle[T, S])) uint64 {
	return d.spawn(&t, f)
}

func (d *Driver[T, S]) spawn(at *T, f func(Handle[T, S])) uint64 {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	wake := d.now
	if at != nil {
		wake = *at
	}
	ts := &taskState[T, S]{
		id:     id,
		resume: make(chan struct{}),
		report: make(chan struct{}),
		done:   make(chan struct{}),
	}
	d.tasks.insert(ts)
	d.wq.push(wake, id)
	d.mu.Unlock()

	d.logger.VI(2).Infof("vtime: spawned task %d, first eligible at %v", id, wake)

	h := Handle[T, S]{driver: d, id: id, ts: ts}
	go d.runTask(ts, h, f)
	return id
}

func (d *Driver[T, S]) runTask(ts *taskState[T, S], h Handle[T, S], f func(Handle[T, S])) {
	<-ts.resume
	defer func() {
		if r := recover(); r != nil {
			ts.panicked = true
			ts.panicVal = r
		}
		close(ts.done)
	}()
	f(h)
}

// wakeNow is used by non-time suspension primitives (AsyncMutex) to
// schedule an immediate wake-up for a task that is parked outside the
// Driver's own classifier bookkeeping: the wake-up is a real WaitQueue
// entry at the current instant, not a side channel the drive loop has to
// special-case.
func (d *Driver[T, S]) wakeNow(id uint64) {
	d.mu.Lock()
	d.wq.push(d.now, id)
	d.mu.Unlock()
}

// Drive advances the scheduler, resuming tasks in order of their pending
// wake time, until the wait queue is empty, no pending wake-up is at or
// before horizon, or ctx is cancelled. It assumes a single caller; for
// concurrent callers use DriveShared.
func (d *Driver[T, S]) Drive(ctx context.Context, horizon T) {
	d.driveLoop(ctx, horizon)
}

// DriveBlock is Drive without a cancellation concern, for callers that are
// happy to block until the horizon is reached or the task graph quiesces.
func (d *Driver[T, S]) DriveBlock(horizon T) {
	d.driveLoop(context.Background(), horizon)
}

// DriveShared is Drive for callers that may call it concurrently with one
// another; a second internal mutex serializes them so exactly one caller
// drives at a time while the others wait.
func (d *Driver[T, S]) DriveShared(ctx context.Context, horizon T) {
	d.driveMu.Lock()
	defer d.driveMu.Unlock()
	d.driveLoop(ctx, horizon)
}

// DriveSharedBlock is DriveShared without a cancellation concern.
func (d *Driver[T, S]) DriveSharedBlock(horizon T) {
	d.DriveShared(context.Background(), horizon)
}

func (d *Driver[T, S]) driveLoop(ctx context.Context, horizon T) {
	d.logger.VI(2).Infof("vtime: driving to horizon %v", horizon)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		d.mu.Lock()
		if d.wq.empty() {
			d.now = horizon
			d.mu.Unlock()
			return
		}
		wake := d.wq.peekWake()
		if horizon.Less(wake) {
			d.now = horizon
			d.mu.Unlock()
			return
		}
		entry := d.wq.popEarliest()
		d.now = entry.wake
		d.mu.Unlock()

		d.traceLine("t=%v resume task=%d\n", entry.wake, entry.id)
		d.resumeOne(entry.id)
	}
}

// resumeOne hands control to the task's goroutine and blocks until that task
// either reports a suspension (consulting the classifier to decide what, if
// anything, this function still needs to do) or signals completion.
func (d *Driver[T, S]) resumeOne(id uint64) {
	d.mu.Lock()
	ts := d.tasks.get(id)
	d.mu.Unlock()

	d.classifier.reset(id)
	ts.resume <- struct{}{}
	select {
	case <-ts.report:
		// The task suspended. If it suspended for a time wait, the
		// suspending Handle method already pushed its wake-up onto the
		// wait queue before sending on report; there is nothing further
		// to do here. If it suspended for any other reason, whatever
		// arranges that wake-up is responsible for eventually pushing an
		// entry for id, and the Driver must not do so itself.
		if d.classifier.byTime() {
			d.traceLine("  task=%d suspended by-time\n", id)
		} else {
			d.traceLine("  task=%d suspended (non-time)\n", id)
		}
	case <-ts.done:
		d.mu.Lock()
		d.wq.removeTask(id)
		d.tasks.remove(id)
		panicked, panicVal := ts.panicked, ts.panicVal
		d.mu.Unlock()
		if panicked {
			d.logger.Errorf("vtime: task %d panicked: %v", id, panicVal)
			d.traceLine("  task=%d panicked: %v\n", id, panicVal)
			panic(panicVal)
		}
		d.logger.VI(2).Infof("vtime: task %d completed", id)
		d.traceLine("  task=%d completed\n", id)
	}
}
