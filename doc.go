// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vtime implements a virtual-time cooperative task scheduler.
//
// A task is a function of a Handle that runs until it either returns or
// suspends itself by waiting for a virtual instant to arrive (At) or a
// virtual duration to elapse (Delay). A Driver owns a simulated clock, a
// table of installed tasks, and a queue of pending wake-ups; driving the
// scheduler to a horizon repeatedly picks the task with the earliest
// pending wake-up, advances the clock to that instant, and resumes exactly
// that one task until it suspends again or completes.
//
// Tasks never run concurrently with each other or with the driving
// goroutine; the Driver hands control to one task at a time and waits for
// it to suspend or finish before considering the next. Suspension for a
// reason other than time (see AsyncMutex) is supported, but the Driver
// itself never decides when such a task is woken — something else, running
// inside another task, must arrange that wake-up by pushing the waiting
// task's id back onto the wait queue.
package vtime
