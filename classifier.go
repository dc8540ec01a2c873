// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vtime

import "sync/atomic"

// classifier is the SuspensionClassifier component. It is a pair of words
// the Driver writes just before resuming a task and a suspending Handle
// method writes just before returning control to the Driver; the Driver
// reads the flag after the task reports a suspension to tell a time wait
// from any other suspension. In neither case does the Driver push a
// wake-up itself: At has already pushed its own entry, and a non-time
// wake-up is pushed by whatever releases the task.
//
// The Driver resets isByTime to false before every resumption, so a task
// that suspends without touching the classifier (as Handle.suspendNonTime,
// used by AsyncMutex, does) is classified as "suspended for a reason other
// than time".
type classifier struct {
	isByTime  atomic.Bool
	currentID atomic.Uint64
}

// reset prepares the classifier for resuming the task with the given id.
func (c *classifier) reset(id uint64) {
	c.isByTime.Store(false)
	c.currentID.Store(id)
}

// markByTime is called by a suspending Handle method (At, Delay) just
// before it returns control to the Driver, to record that the suspension
// was a time wait.
func (c *classifier) markByTime() {
	c.isByTime.Store(true)
}

func (c *classifier) byTime() bool { return c.isByTime.Load() }
func (c *classifier) id() uint64   { return c.currentID.Load() }
